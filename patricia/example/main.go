package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/aglyzov/go-patricia/patricia"
)

func main() {
	t := patricia.New[int]()
	t.Insert([]byte(""), 1)
	t.Insert([]byte("foo"), 3)
	t.Insert([]byte("foobar"), 5)
	t.Insert([]byte("bar"), 6)
	t.Insert([]byte("baz"), 7)
	t.Insert([]byte("romane"), 8)
	t.Insert([]byte("romanus"), 9)
	t.Insert([]byte("romulus"), 10)

	t.DebugDump(os.Stdout)

	println("------")

	var (
		label = color.New(color.FgCyan).SprintFunc()
		value = color.New(color.FgGreen, color.Bold).SprintFunc()
		dim   = color.New(color.FgHiBlack).SprintFunc()
	)

	// every label is printed at its byte offset within the full key
	for ns := t.Nodes(); ns.HasNext(); {
		offset, node, _ := ns.Next()
		line := strings.Repeat(dim("."), offset) + label(string(node.Label()))

		if val, ok := node.Value(); ok {
			line += " " + value(val)
		}
		fmt.Println(line)
	}

	println("------")

	for _, query := range []string{"foobarbaz", "fo", "romanesque", "bark"} {
		if prefix, val, ok := t.GetLongestCommonPrefix([]byte(query)); ok {
			fmt.Printf("%-12s -> %q = %v\n", query, prefix, val)
		} else {
			color.Red("%-12s -> no match", query)
		}
	}

	println("------")

	visitor := func(item patricia.Item[int]) bool {
		fmt.Printf("%s\n", item.Key)
		return true
	}
	t.Iter([]byte("rom"), visitor)
}
