package patricia

import (
	"errors"
)

// ErrNoMoreNodes is returned by iterators once all nodes have been visited.
var ErrNoMoreNodes = errors.New("patricia: there are no more nodes in the tree")

type iterLevel[V any] struct {
	level int
	node  *Node[V]
}

// NodeIter walks a subtree depth-first in pre-order, children in ascending
// order of their first label byte. Every node comes with its level (the root
// of the walk is level 0).
type NodeIter[V any] struct {
	stack   []iterLevel[V]
	consume bool
}

// Iter returns a fresh iterator over the subtree rooted at n.
func (n *Node[V]) Iter() *NodeIter[V] {
	return &NodeIter[V]{
		stack: []iterLevel[V]{{0, n}},
	}
}

// intoIter returns an iterator which detaches every node from its children
// as the node is emitted. The subtree is dismantled by the walk.
func (n *Node[V]) intoIter() *NodeIter[V] {
	it := n.Iter()
	it.consume = true

	return it
}

func (it *NodeIter[V]) HasNext() bool {
	return it != nil && len(it.stack) > 0
}

// Next returns the next node and its level.
func (it *NodeIter[V]) Next() (int, *Node[V], error) {
	if !it.HasNext() {
		return 0, nil, ErrNoMoreNodes
	}

	var (
		last = len(it.stack) - 1
		cur  = it.stack[last]
		kids = cur.node.children.nodes
	)

	it.stack = it.stack[:last]

	// push in reverse so that the smallest first byte pops first
	for i := len(kids) - 1; i >= 0; i-- {
		it.stack = append(it.stack, iterLevel[V]{cur.level + 1, kids[i]})
	}

	if it.consume {
		cur.node.children = childIndex[V]{}
	}

	return cur.level, cur.node, nil
}

// Nodes walks the nodes of a tree like NodeIter does, but reports for every
// node the offset at which its label starts within the full key, i.e. the
// number of key bytes consumed by its ancestors.
type Nodes[V any] struct {
	nodes     *NodeIter[V]
	labelLens []int
}

func (ns *Nodes[V]) HasNext() bool {
	return ns != nil && ns.nodes.HasNext()
}

// Next returns the next node together with its key offset.
func (ns *Nodes[V]) Next() (int, *Node[V], error) {
	if !ns.HasNext() {
		return 0, nil, ErrNoMoreNodes
	}

	level, node, err := ns.nodes.Next()
	if err != nil {
		return 0, nil, err
	}

	// entries deeper than level belong to a finished branch
	if level < len(ns.labelLens) {
		ns.labelLens = ns.labelLens[:level+1]
	} else {
		for len(ns.labelLens) <= level {
			ns.labelLens = append(ns.labelLens, 0)
		}
	}

	ns.labelLens[level] = len(node.label)

	offset := 0
	for _, size := range ns.labelLens[:level] {
		offset += size
	}

	return offset, node, nil
}
