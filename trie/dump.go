package trie

import (
	"fmt"

	"github.com/colorfulnotion/radixset/storage"
	"github.com/xlab/treeprint"
)

// Dump renders the live nodes of the tree, children in nibble order.
func (t *Tree) Dump() (string, error) {
	var out string
	err := t.view("dump", func(s *storage.Session) error {
		root, err := readNode(s, t.addr.RootAddress())
		if err != nil {
			return err
		}
		tree := treeprint.New()
		tree.SetValue(fmt.Sprintf("root %s", root.Address.String_short()))
		if err := t.dump(s, tree, root, RootDepth); err != nil {
			return err
		}
		out = tree.String()
		return nil
	})
	return out, err
}

func (t *Tree) dump(s storage.Store, branch treeprint.Tree, n Node, depth int) error {
	for rest := n.Children; rest != 0; rest &= rest - 1 {
		d := lowestChild(rest)
		child, err := readNode(s, t.addr.childAddress(n.Entry, depth, d))
		if err != nil {
			return err
		}
		switch child.Kind() {
		case KindLeaf:
			branch.AddMetaNode(fmt.Sprintf("%x", d), fmt.Sprintf("%s @%s", child.Entry.Magnitude.Hex(), child.Address.String_short()))
		case KindBranch:
			if int(child.Entry.Length) <= depth {
				return t.corrupt(child, depth)
			}
			sub := branch.AddMetaBranch(fmt.Sprintf("%x", d), fmt.Sprintf("prefix %s/%d @%s",
				child.Entry.Magnitude.Hex(), child.Entry.Length, child.Address.String_short()))
			if err := t.dump(s, sub, child, int(child.Entry.Length)); err != nil {
				return err
			}
		default:
			return t.corrupt(child, depth)
		}
	}
	return nil
}
