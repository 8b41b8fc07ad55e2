package patricia

import (
	"github.com/hideo55/go-popcount"
)

// childIndex keeps the children of a node sorted by the first byte of their
// labels. bitmap has one bit per possible first byte; nodes holds only the
// present children, in bit order.
type childIndex[V any] struct {
	bitmap [4]uint64 // 256 bits representing 2**8 first bytes
	nodes  []*Node[V]
}

// rank returns the slot of byte b in nodes and whether b is present.
func (ci *childIndex[V]) rank(b byte) (int, bool) {
	var (
		ofs = b >> 6
		idx = b & 0x3F // the lowest 6 bits (2**6 == 64)
		bmp = ci.bitmap[ofs]
		cnt = popcount.Count(bmp & (uint64(1)<<idx - 1))
	)

	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(ci.bitmap[j])
	}

	return int(cnt), (bmp>>idx)&0x01 != 0
}

func (ci *childIndex[V]) len() int {
	return len(ci.nodes)
}

// get returns the child whose label starts with b (or nil).
func (ci *childIndex[V]) get(b byte) *Node[V] {
	if i, ok := ci.rank(b); ok {
		return ci.nodes[i]
	}

	return nil
}

// add links a child; its first byte must not be present yet.
func (ci *childIndex[V]) add(child *Node[V]) {
	b := child.label[0]

	i, ok := ci.rank(b)
	if ok {
		panic("patricia: a child with the same first byte already exists")
	}

	ci.nodes = append(ci.nodes, nil)
	copy(ci.nodes[i+1:], ci.nodes[i:])
	ci.nodes[i] = child
	ci.bitmap[b>>6] |= uint64(1) << (b & 0x3F)
}

// remove unlinks the child starting with b and returns it (or nil).
func (ci *childIndex[V]) remove(b byte) *Node[V] {
	i, ok := ci.rank(b)
	if !ok {
		return nil
	}

	child := ci.nodes[i]

	copy(ci.nodes[i:], ci.nodes[i+1:])
	ci.nodes[len(ci.nodes)-1] = nil
	ci.nodes = ci.nodes[:len(ci.nodes)-1]
	ci.bitmap[b>>6] &^= uint64(1) << (b & 0x3F)

	if len(ci.nodes) == 0 {
		ci.nodes = nil
	}

	return child
}

// count returns the number of set bits in the bitmap.
func (ci *childIndex[V]) count() int {
	var cnt uint64

	for _, bmp := range ci.bitmap {
		cnt += popcount.Count(bmp)
	}

	return int(cnt)
}
