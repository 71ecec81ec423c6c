package trie

import (
	"errors"

	"github.com/colorfulnotion/radixset/common"
	"github.com/colorfulnotion/radixset/storage"
	"github.com/holiman/uint256"
)

// Neighbors is the result of Query. A nil field means there is no such
// member.
type Neighbors struct {
	Left  *uint256.Int // greatest member <= probe
	Mid   *uint256.Int // the probe, if it is a member
	Right *uint256.Int // smallest member >= probe
}

// Query returns the members surrounding x.
func (t *Tree) Query(x *uint256.Int) (Neighbors, error) {
	var out Neighbors
	if err := checkRange(x); err != nil {
		return out, err
	}
	err := t.view("query", func(s *storage.Session) error {
		var err error
		out, err = t.query(s, x)
		return err
	})
	return out, err
}

func (t *Tree) query(s storage.Store, x *uint256.Int) (Neighbors, error) {
	var (
		out          Neighbors
		lower, upper common.Hash // nearest subtrees entirely below / above x
		hasLo, hasHi bool
		depth        = RootDepth
	)
	node, err := readNode(s, t.addr.RootAddress())
	if err != nil {
		return out, err
	}

walk:
	for {
		d := Nibble(x, depth)
		if lo := childrenBelow(node.Children, d); lo != 0 {
			lower, hasLo = t.addr.childAddress(node.Entry, depth, highestChild(lo)), true
		}
		if hi := childrenAbove(node.Children, d); hi != 0 {
			upper, hasHi = t.addr.childAddress(node.Entry, depth, lowestChild(hi)), true
		}
		if !node.HasChild(d) {
			break
		}
		child, err := t.descend(s, x, depth)
		if err != nil {
			return out, err
		}
		if child.Kind() == KindLeaf {
			switch child.Entry.Magnitude.Cmp(x) {
			case 0:
				out.Left, out.Mid, out.Right = child.Key(), child.Key(), child.Key()
				return out, nil
			case -1:
				out.Left, hasLo = child.Key(), false
			default:
				out.Right, hasHi = child.Key(), false
			}
			break
		}
		switch Prefix(x, int(child.Entry.Length)).Cmp(&child.Entry.Magnitude) {
		case 0:
			node, depth = child, int(child.Entry.Length)
			continue walk
		case 1:
			lower, hasLo = child.Address, true
		default:
			upper, hasHi = child.Address, true
		}
		break
	}

	if hasLo {
		if out.Left, err = t.extreme(s, lower, true); err != nil {
			return out, err
		}
	}
	if hasHi {
		if out.Right, err = t.extreme(s, upper, false); err != nil {
			return out, err
		}
	}
	return out, nil
}

// extreme returns the largest (or smallest) member of the subtree in slot.
func (t *Tree) extreme(s storage.Store, slot common.Hash, largest bool) (*uint256.Int, error) {
	for depth := RootDepth + 1; ; {
		n, err := readNode(s, slot)
		if err != nil {
			return nil, err
		}
		switch n.Kind() {
		case KindLeaf:
			return n.Key(), nil
		case KindBranch:
			d := lowestChild(n.Children)
			if largest {
				d = highestChild(n.Children)
			}
			depth = int(n.Entry.Length)
			slot = t.addr.childAddress(n.Entry, depth, d)
		default:
			return nil, t.corrupt(n, depth)
		}
	}
}

// Contains reports whether x is a member.
func (t *Tree) Contains(x *uint256.Int) (bool, error) {
	if err := checkRange(x); err != nil {
		return false, err
	}
	var found bool
	err := t.view("contains", func(s *storage.Session) error {
		node, err := readNode(s, t.addr.RootAddress())
		if err != nil {
			return err
		}
		for depth := RootDepth; node.HasChild(Nibble(x, depth)); {
			child, err := t.descend(s, x, depth)
			if err != nil {
				return err
			}
			if child.Kind() == KindLeaf {
				found = child.Entry.Magnitude.Eq(x)
				return nil
			}
			if !hasPrefix(x, child.Entry) {
				return nil
			}
			node, depth = child, int(child.Entry.Length)
		}
		return nil
	})
	return found, err
}

// Min returns the smallest member, or nil for an empty tree.
func (t *Tree) Min() (*uint256.Int, error) {
	return t.bound("min", false)
}

// Max returns the largest member, or nil for an empty tree.
func (t *Tree) Max() (*uint256.Int, error) {
	return t.bound("max", true)
}

func (t *Tree) bound(op string, largest bool) (*uint256.Int, error) {
	var out *uint256.Int
	err := t.view(op, func(s *storage.Session) error {
		root, err := readNode(s, t.addr.RootAddress())
		if err != nil || root.Children == 0 {
			return err
		}
		d := lowestChild(root.Children)
		if largest {
			d = highestChild(root.Children)
		}
		out, err = t.extreme(s, t.addr.childAddress(root.Entry, RootDepth, d), largest)
		return err
	})
	return out, err
}

var errStopWalk = errors.New("stop walk")

// Walk calls fn for every member in ascending order until fn returns false.
func (t *Tree) Walk(fn func(x *uint256.Int) bool) error {
	err := t.view("walk", func(s *storage.Session) error {
		root, err := readNode(s, t.addr.RootAddress())
		if err != nil {
			return err
		}
		return t.walk(s, root, RootDepth, fn)
	})
	if errors.Is(err, errStopWalk) {
		return nil
	}
	return err
}

func (t *Tree) walk(s storage.Store, n Node, depth int, fn func(x *uint256.Int) bool) error {
	for rest := n.Children; rest != 0; rest &= rest - 1 {
		child, err := readNode(s, t.addr.childAddress(n.Entry, depth, lowestChild(rest)))
		if err != nil {
			return err
		}
		switch child.Kind() {
		case KindLeaf:
			if !fn(child.Key()) {
				return errStopWalk
			}
		case KindBranch:
			if int(child.Entry.Length) <= depth {
				return t.corrupt(child, depth)
			}
			if err := t.walk(s, child, int(child.Entry.Length), fn); err != nil {
				return err
			}
		default:
			return t.corrupt(child, depth)
		}
	}
	return nil
}

// Members returns every member in ascending order.
func (t *Tree) Members() ([]*uint256.Int, error) {
	var out []*uint256.Int
	err := t.Walk(func(x *uint256.Int) bool {
		out = append(out, x)
		return true
	})
	return out, err
}

// Len counts the members by walking the tree.
func (t *Tree) Len() (int, error) {
	n := 0
	err := t.Walk(func(*uint256.Int) bool {
		n++
		return true
	})
	return n, err
}
