package patricia

import (
	"fmt"
	"io"
)

// Item is a key-value pair.
type Item[V any] struct {
	Key []byte
	Val V
}

// Tree is a PATRICIA tree mapping byte-string keys to values of type V.
// The zero value is an empty tree ready to use.
type Tree[V any] struct {
	root *Node[V]
	size int
}

// Init resets the tree and inserts the given items.
func Init[V any](tree *Tree[V], items ...Item[V]) *Tree[V] {
	*tree = Tree[V]{root: newRoot[V]()}

	for _, item := range items {
		tree.Insert(item.Key, item.Val)
	}

	return tree
}

// New returns a new Tree optionally initialized with the given items.
func New[V any](items ...Item[V]) *Tree[V] {
	return Init(&Tree[V]{}, items...)
}

// FromNode wraps a node built elsewhere (e.g. by a decoder) into a Tree.
// The length is recounted, since it is not known for a bare node.
func FromNode[V any](root *Node[V]) *Tree[V] {
	if root == nil {
		return New[V]()
	}

	tree := &Tree[V]{root: root}

	for it := root.Iter(); it.HasNext(); {
		if _, node, _ := it.Next(); node.hasValue {
			tree.size++
		}
	}

	return tree
}

func (t *Tree[V]) node() *Node[V] {
	if t.root == nil {
		t.root = newRoot[V]()
	}

	return t.root
}

// Len returns the number of keys in the tree.
func (t *Tree[V]) Len() int {
	return t.size
}

// Empty tells whether the tree has no keys.
func (t *Tree[V]) Empty() bool {
	return t.size == 0
}

// Insert associates a value with the key. It returns the previous value and
// true if the key was already present.
func (t *Tree[V]) Insert(key []byte, val V) (V, bool) {
	prev, ok := t.node().insert(key, val)
	if !ok {
		t.size++
	}

	return prev, ok
}

// Replace applies a func to the previous value of a key (the zero value and
// false if the key is absent) and stores the result. It returns the previous
// value.
func (t *Tree[V]) Replace(key []byte, replace func(prev V, ok bool) V) (V, bool) {
	prev, ok := t.node().replace(key, replace)
	if !ok {
		t.size++
	}

	return prev, ok
}

// Get returns a value associated with the key.
func (t *Tree[V]) Get(key []byte) (V, bool) {
	return t.node().get(key)
}

// GetPtr returns a pointer to the value associated with the key (or nil).
// The pointer is valid until the tree is modified.
func (t *Tree[V]) GetPtr(key []byte) *V {
	return t.node().getPtr(key)
}

// GetLongestCommonPrefix finds the longest stored key which is a prefix of
// key. It returns that prefix (a sub-slice of key) and its value.
func (t *Tree[V]) GetLongestCommonPrefix(key []byte) ([]byte, V, bool) {
	n, val := t.node().longestCommonPrefix(key, 0)
	if val == nil {
		var zero V
		return nil, zero, false
	}

	return key[:n], *val, true
}

// CommonPrefixes calls a handler for every stored key which is a prefix of
// key, shortest first. The handler receives a sub-slice of key. It returns
// whether all matching keys were visited.
func (t *Tree[V]) CommonPrefixes(key []byte, handler func([]byte, V) bool) bool {
	return t.node().commonPrefixes(key, func(n int, val V) bool {
		return handler(key[:n], val)
	})
}

// Remove deletes the key from the tree and returns its value (if any).
func (t *Tree[V]) Remove(key []byte) (V, bool) {
	prev, ok := t.node().remove(key)
	if ok {
		t.size--
	}

	return prev, ok
}

// Clear drops all the keys.
func (t *Tree[V]) Clear() {
	t.root = newRoot[V]()
	t.size = 0
}

// Root returns the root node of the tree.
func (t *Tree[V]) Root() *Node[V] {
	return t.node()
}

// IntoRoot detaches the root node from the tree and returns it. The tree is
// empty afterwards.
func (t *Tree[V]) IntoRoot() *Node[V] {
	root := t.node()
	t.Clear()

	return root
}

// Nodes returns an iterator over all nodes of the tree along with the key
// offset of each node.
func (t *Tree[V]) Nodes() *Nodes[V] {
	return &Nodes[V]{nodes: t.node().Iter()}
}

// IntoNodes moves all the nodes out of the tree and returns an iterator over
// them. Emitted nodes are detached from their children. The tree is empty
// afterwards.
func (t *Tree[V]) IntoNodes() *Nodes[V] {
	return &Nodes[V]{nodes: t.IntoRoot().intoIter()}
}

// Clone returns a deep copy of the tree. Values are copied by assignment.
func (t *Tree[V]) Clone() *Tree[V] {
	return t.CloneFunc(nil)
}

// CloneFunc returns a deep copy of the tree with every value copied by fn.
func (t *Tree[V]) CloneFunc(fn func(V) V) *Tree[V] {
	return &Tree[V]{
		root: t.node().cloneFunc(fn),
		size: t.size,
	}
}

// Iter calls a handler for all keys with a given prefix, in key order.
// It returns whether all prefixed keys were iterated.
// The handler can continue the process by returning true or abort with false.
func (t *Tree[V]) Iter(prefix []byte, handler func(Item[V]) bool) bool {
	top, base := t.node().seek(prefix)
	if top == nil {
		return true
	}

	return top.walk(cloneBytes(base), handler)
}

// Keys returns all keys in a sorted order.
func (t *Tree[V]) Keys() [][]byte {
	keys := make([][]byte, 0, t.size)

	t.Iter(nil, func(item Item[V]) bool {
		keys = append(keys, item.Key)
		return true
	})

	return keys
}

// Items returns all key-value pairs sorted by key.
func (t *Tree[V]) Items() []Item[V] {
	items := make([]Item[V], 0, t.size)

	t.Iter(nil, func(item Item[V]) bool {
		items = append(items, item)
		return true
	})

	return items
}

// Merge copies the keys of another tree having a given prefix into this one.
// Values of common keys are taken from other. Returns itself.
func (t *Tree[V]) Merge(other *Tree[V], prefix []byte) *Tree[V] {
	if other != nil {
		other.Iter(prefix, func(item Item[V]) bool {
			t.Insert(item.Key, item.Val)
			return true
		})
	}

	return t
}

// DebugDump writes the node structure of the tree to w.
func (t *Tree[V]) DebugDump(w io.Writer) {
	for ns := t.Nodes(); ns.HasNext(); {
		offset, node, _ := ns.Next()
		indent := fmt.Sprintf("%*s", offset, "")

		if val, ok := node.Value(); ok {
			fmt.Fprintf(w, "%s%q = %v\n", indent, node.label, val)
		} else {
			fmt.Fprintf(w, "%s%q\n", indent, node.label)
		}
	}
}
