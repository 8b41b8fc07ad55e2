package patricia

import (
	"bytes"
)

// Node is an element of a Tree: a compressed edge label, an optional value
// and the children hanging off it.
type Node[V any] struct {
	label    []byte
	value    V
	hasValue bool
	children childIndex[V]
}

// matchKind is the outcome of comparing a node label with a remaining key.
type matchKind uint8

const (
	// fullMatch: label and key are equal.
	fullMatch matchKind = iota
	// extendThrough: label is a proper prefix of key.
	extendThrough
	// splitNoBranch: key is a proper prefix of label.
	splitNoBranch
	// splitWithBranch: label and key diverge inside label.
	splitWithBranch
)

func (k matchKind) String() string {
	return []string{"full-match", "extend-through", "split-no-branch", "split-with-branch"}[k]
}

// NewNode returns a value-less node with a copy of label and the given
// children. Every child must have a non-empty label with a distinct first
// byte; NewNode panics otherwise.
func NewNode[V any](label []byte, children ...*Node[V]) *Node[V] {
	n := &Node[V]{label: cloneBytes(label)}

	for _, child := range children {
		if child == nil || len(child.label) == 0 {
			panic("patricia: a child node must have a non-empty label")
		}
		n.children.add(child)
	}

	return n
}

func newRoot[V any]() *Node[V] {
	return &Node[V]{}
}

func newLeaf[V any](label []byte, val V) *Node[V] {
	return &Node[V]{
		label:    cloneBytes(label),
		value:    val,
		hasValue: true,
	}
}

// Label returns the edge label of the node. The slice must not be modified.
func (n *Node[V]) Label() []byte {
	return n.label
}

// Value returns the value stored in the node, if any.
func (n *Node[V]) Value() (V, bool) {
	return n.value, n.hasValue
}

// SetValue stores a value in the node and returns the node.
func (n *Node[V]) SetValue(val V) *Node[V] {
	n.value, n.hasValue = val, true
	return n
}

// Children returns the children of the node ordered by their first label byte.
func (n *Node[V]) Children() []*Node[V] {
	return append([]*Node[V](nil), n.children.nodes...)
}

// ChildCount returns the number of children of the node.
func (n *Node[V]) ChildCount() int {
	return n.children.len()
}

// IsLeaf tells whether the node has no children.
func (n *Node[V]) IsLeaf() bool {
	return n.children.len() == 0
}

// Clone returns a deep copy of the subtree rooted at n. Values are copied by
// assignment.
func (n *Node[V]) Clone() *Node[V] {
	return n.cloneFunc(nil)
}

func (n *Node[V]) cloneFunc(fn func(V) V) *Node[V] {
	c := &Node[V]{
		label:    cloneBytes(n.label),
		value:    n.value,
		hasValue: n.hasValue,
	}

	if fn != nil && n.hasValue {
		c.value = fn(n.value)
	}

	c.children.bitmap = n.children.bitmap

	if len(n.children.nodes) > 0 {
		c.children.nodes = make([]*Node[V], len(n.children.nodes))
		for i, child := range n.children.nodes {
			c.children.nodes[i] = child.cloneFunc(fn)
		}
	}

	return c
}

// classify compares label with the remaining key.
func classify(label, key []byte) (matchKind, int) {
	p := commonPrefixLen(label, key)

	switch {
	case p == len(label) && p == len(key):
		return fullMatch, p
	case p == len(label):
		return extendThrough, p
	case p == len(key):
		return splitNoBranch, p
	default:
		return splitWithBranch, p
	}
}

// insert stores val under key and returns the previous value (if any).
func (n *Node[V]) insert(key []byte, val V) (V, bool) {
	return n.replace(key, func(V, bool) V { return val })
}

// replace applies fn to the previous value of key and stores the result. The
// key must already match everything consumed by the ancestors of n.
func (n *Node[V]) replace(key []byte, fn func(prev V, ok bool) V) (prev V, ok bool) {
	kind, p := classify(n.label, key)

	switch kind {
	case fullMatch:
		prev, ok = n.value, n.hasValue
		n.value, n.hasValue = fn(prev, ok), true

	case extendThrough:
		suffix := key[p:]

		if child := n.children.get(suffix[0]); child != nil {
			return child.replace(suffix, fn)
		}

		n.children.add(newLeaf(suffix, fn(prev, false)))

	case splitNoBranch:
		// the key ends inside the label - the head of the split keeps the value
		val := fn(prev, false)
		n.split(p)
		n.value, n.hasValue = val, true

	case splitWithBranch:
		leaf := newLeaf(key[p:], fn(prev, false))
		n.split(p)
		n.children.add(leaf)
	}

	return prev, ok
}

// split cuts the label of n at p. n keeps label[:p] and loses its value; a
// new child takes label[p:] together with the old value and children.
func (n *Node[V]) split(p int) {
	var (
		zero V
		head childIndex[V]
		tail = &Node[V]{
			label:    n.label[p:],
			value:    n.value,
			hasValue: n.hasValue,
			children: n.children,
		}
	)

	head.add(tail)

	tracer().Debugf("split %q at %d", n.label, p)

	n.label = n.label[:p:p]
	n.value, n.hasValue = zero, false
	n.children = head
}

// lookup returns the node holding a value for key (or nil).
func (n *Node[V]) lookup(key []byte) *Node[V] {
	for n != nil {
		if !bytes.HasPrefix(key, n.label) {
			return nil
		}

		key = key[len(n.label):]

		if len(key) == 0 {
			if n.hasValue {
				return n
			}
			return nil
		}

		n = n.children.get(key[0])
	}

	return nil
}

func (n *Node[V]) get(key []byte) (V, bool) {
	if found := n.lookup(key); found != nil {
		return found.value, true
	}

	var zero V

	return zero, false
}

func (n *Node[V]) getPtr(key []byte) *V {
	if found := n.lookup(key); found != nil {
		return &found.value
	}

	return nil
}

// longestCommonPrefix returns the length of the longest prefix of key that
// is stored in the subtree together with its value. consumed is the number of
// key bytes matched by the ancestors of n.
func (n *Node[V]) longestCommonPrefix(key []byte, consumed int) (int, *V) {
	var (
		best    *V
		bestLen int
	)

	for n != nil {
		if !bytes.HasPrefix(key[consumed:], n.label) {
			break
		}

		consumed += len(n.label)

		if n.hasValue {
			// deeper matches take precedence
			best, bestLen = &n.value, consumed
		}

		if consumed == len(key) {
			break
		}

		n = n.children.get(key[consumed])
	}

	return bestLen, best
}

// commonPrefixes calls fn for every stored key that is a prefix of key,
// shortest first. It stops as soon as fn returns false.
func (n *Node[V]) commonPrefixes(key []byte, fn func(int, V) bool) bool {
	consumed := 0

	for n != nil {
		if !bytes.HasPrefix(key[consumed:], n.label) {
			break
		}

		consumed += len(n.label)

		if n.hasValue && !fn(consumed, n.value) {
			return false
		}

		if consumed == len(key) {
			break
		}

		n = n.children.get(key[consumed])
	}

	return true
}

// remove deletes key from the subtree rooted at n and returns its value. The
// children of n are compressed again on the way back; n itself is left to the
// caller, which is either its parent or the tree (the root is never
// collapsed).
func (n *Node[V]) remove(key []byte) (prev V, ok bool) {
	if !bytes.HasPrefix(key, n.label) {
		return prev, false
	}

	key = key[len(n.label):]

	if len(key) == 0 {
		if !n.hasValue {
			return prev, false
		}

		var zero V

		prev, ok = n.value, true
		n.value, n.hasValue = zero, false

		return prev, ok
	}

	child := n.children.get(key[0])
	if child == nil {
		return prev, false
	}

	if prev, ok = child.remove(key); !ok {
		return prev, false
	}

	switch {
	case child.hasValue:
		// still needed
	case child.children.len() == 0:
		tracer().Debugf("prune %q", child.label)
		n.children.remove(key[0])
	case child.children.len() == 1:
		child.mergeChild()
	}

	return prev, ok
}

// mergeChild folds the only child of a value-less node into the node.
func (n *Node[V]) mergeChild() {
	only := n.children.nodes[0]

	label := make([]byte, 0, len(n.label)+len(only.label))
	label = append(label, n.label...)
	label = append(label, only.label...)

	tracer().Debugf("merge %q + %q", n.label, only.label)

	n.label = label
	n.value, n.hasValue = only.value, only.hasValue
	n.children = only.children
}

// seek finds the topmost node whose path covers prefix. It also returns the
// part of prefix consumed by the ancestors of that node.
func (n *Node[V]) seek(prefix []byte) (*Node[V], []byte) {
	rest := prefix

	for n != nil {
		if len(rest) <= len(n.label) {
			if !bytes.HasPrefix(n.label, rest) {
				return nil, nil
			}
			return n, prefix[:len(prefix)-len(rest)]
		}

		if !bytes.HasPrefix(rest, n.label) {
			return nil, nil
		}

		rest = rest[len(n.label):]
		n = n.children.get(rest[0])
	}

	return nil, nil
}

// walk calls fn for every value in the subtree in key order. buf holds the
// key bytes consumed by the ancestors of n; it is reused between siblings.
func (n *Node[V]) walk(buf []byte, fn func(Item[V]) bool) bool {
	key := append(buf, n.label...)

	if n.hasValue && !fn(Item[V]{Key: cloneBytes(key), Val: n.value}) {
		return false
	}

	for _, child := range n.children.nodes {
		if !child.walk(key, fn) {
			return false
		}
	}

	return true
}

func commonPrefixLen(a, b []byte) int {
	size := min(len(a), len(b))

	i := 0
	for ; i < size && a[i] == b[i]; i++ {
	}

	return i
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	return append([]byte(nil), b...)
}
