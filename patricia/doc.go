// Package patricia defines a compressed prefix tree (PATRICIA / radix trie)
// mapping arbitrary byte-string keys to values of a caller-chosen type.
//
// A Tree owns a single root Node. Every Node has three fields:
//
//   - label    - the bytes consumed by the edge leading into the node
//     (the root label is empty);
//   - value    - an optional payload, present iff a key ends at the node;
//   - children - child nodes ordered by the first byte of their labels.
//
// Children are addressed through a 256-bit presence bitmap (one bit per
// possible first byte) and a dense slice. A child's slot is the number of
// set bits below its first byte:
//
//	bitmap:   ....0000 0110 0010....      (bits 'a', 'f', 'g' are set)
//	children: [ "a..." | "f..." | "g..." ]
//
// so two siblings can never share a first byte and iteration over the slice
// is already in ascending byte order.
//
// The tree stays compressed: a node other than the root never has an empty
// label, and never lacks a value while having fewer than two children.
//
// Example tree:
// ------------
//
//	[root:""] --+-- [node:"ba"] --+-- [leaf:"r"=7]
//	            |                 |
//	            |                 `-- [leaf:"z"=8]
//	            |
//	            `-- [node:"foo"=4] -- [leaf:"bar"=5]
//
// The tree above contains the following keys:
//
//   - "bar"
//   - "baz"
//   - "foo"
//   - "foobar"
//
// A Tree is not safe for concurrent mutation. Callers either guard it with a
// lock or work on Clone snapshots.
package patricia

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'patricia'
func tracer() tracing.Trace {
	return tracing.Select("patricia")
}
