package patricia

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidNode signals a broken structural invariant.
var ErrInvalidNode = errors.New("patricia: invalid node")

// Check validates the structural invariants of the tree:
//
//   - no node other than the root has an empty label;
//   - siblings start with distinct bytes, in ascending order;
//   - no node other than the root lacks a value with fewer than two children;
//   - the cached length equals the number of stored values.
func (t *Tree[V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidNode)
	}

	root := t.node()

	values, err := checkNode(root, nil, true)
	if err != nil {
		return err
	}

	if values != t.size {
		return fmt.Errorf("%w: length mismatch (%d != %d)", ErrInvalidNode, t.size, values)
	}

	return nil
}

func checkNode[V any](n *Node[V], path []byte, isRoot bool) (int, error) {
	path = append(path, n.label...)

	if !isRoot {
		if len(n.label) == 0 {
			return 0, fmt.Errorf("%w: empty label at %q", ErrInvalidNode, path)
		}
		if !n.hasValue && n.children.len() < 2 {
			return 0, fmt.Errorf("%w: uncompressed node %q with %d children",
				ErrInvalidNode, path, n.children.len())
		}
	}

	if bits := n.children.count(); bits != n.children.len() {
		return 0, fmt.Errorf("%w: bitmap of %q has %d bits for %d children",
			ErrInvalidNode, path, bits, n.children.len())
	}

	values := 0
	if n.hasValue {
		values++
	}

	var prev []byte

	for i, child := range n.children.nodes {
		if child == nil {
			return 0, fmt.Errorf("%w: nil child of %q at %d", ErrInvalidNode, path, i)
		}
		if len(child.label) == 0 {
			return 0, fmt.Errorf("%w: empty label under %q at %d", ErrInvalidNode, path, i)
		}
		if slot, ok := n.children.rank(child.label[0]); !ok || slot != i {
			return 0, fmt.Errorf("%w: child %q of %q is misplaced", ErrInvalidNode, child.label, path)
		}
		if prev != nil && bytes.Compare(prev[:1], child.label[:1]) >= 0 {
			return 0, fmt.Errorf("%w: children of %q are not sorted", ErrInvalidNode, path)
		}
		prev = child.label

		cnt, err := checkNode(child, path, false)
		if err != nil {
			return 0, err
		}
		values += cnt
	}

	return values, nil
}
