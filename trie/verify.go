package trie

import (
	"fmt"

	"github.com/colorfulnotion/radixset/common"
	"github.com/colorfulnotion/radixset/storage"
	"github.com/colorfulnotion/radixset/trieerrors"
	"github.com/holiman/uint256"
)

// Report summarizes a Verify pass.
type Report struct {
	Branches int
	Leaves   int
	// Addresses holds every live address of the tree, root included when it
	// is non-empty.
	Addresses []common.Hash
}

// Verify walks the whole tree and checks that every record sits at the
// address its prefix derives, every branch below the root has at least two
// children, every entry extends the path it hangs from, and members are
// visited in strictly ascending order.
func (t *Tree) Verify() (Report, error) {
	var rep Report
	err := t.view("verify", func(s *storage.Session) error {
		root, err := readNode(s, t.addr.RootAddress())
		if err != nil {
			return err
		}
		switch root.Kind() {
		case KindEmpty:
			return nil
		case KindBranch:
			if !root.Entry.IsZero() {
				return t.corrupt(root, RootDepth)
			}
		default:
			return t.corrupt(root, RootDepth)
		}
		rep.Addresses = append(rep.Addresses, root.Address)
		var last *uint256.Int
		return t.verify(s, root, RootDepth, &rep, &last)
	})
	return rep, err
}

func (t *Tree) verify(s storage.Store, n Node, depth int, rep *Report, last **uint256.Int) error {
	for rest := n.Children; rest != 0; rest &= rest - 1 {
		d := lowestChild(rest)
		slot := withNibble(Prefix(&n.Entry.Magnitude, depth), depth, d)
		child, err := readNode(s, t.addr.childAddress(n.Entry, depth, d))
		if err != nil {
			return err
		}
		if int(child.Entry.Length) <= depth || !hasPrefix(&child.Entry.Magnitude, Value{Length: uint8(depth + 1), Magnitude: *slot}) {
			return t.corrupt(child, depth)
		}
		if !Prefix(&child.Entry.Magnitude, int(child.Entry.Length)).Eq(&child.Entry.Magnitude) {
			return t.corrupt(child, depth)
		}
		rep.Addresses = append(rep.Addresses, child.Address)

		switch child.Kind() {
		case KindLeaf:
			key := child.Key()
			if !InRange(key) {
				return fmt.Errorf("leaf %s: %w", key.Hex(), trieerrors.ErrOutOfRange)
			}
			if *last != nil && !(*last).Lt(key) {
				return fmt.Errorf("members out of order at %s: %w", key.Hex(), trieerrors.ErrCorruptNode)
			}
			*last = key
			rep.Leaves++
		case KindBranch:
			if child.ChildCount() < 2 {
				return t.corrupt(child, depth)
			}
			rep.Branches++
			if err := t.verify(s, child, int(child.Entry.Length), rep, last); err != nil {
				return err
			}
		default:
			return t.corrupt(child, depth)
		}
	}
	return nil
}
