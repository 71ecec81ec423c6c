package trie

import (
	"fmt"
	"math/bits"

	"github.com/colorfulnotion/radixset/common"
	"github.com/colorfulnotion/radixset/storage"
	"github.com/holiman/uint256"
)

// Kind is the role a node record plays in the trie.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBranch
	KindLeaf
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBranch:
		return "branch"
	case KindLeaf:
		return "leaf"
	default:
		return "corrupt"
	}
}

/*
Node is one storage word:

	+------------------+----------------------------------------+
	| children (16b)   | Encode(entry) (240b)                   |
	+------------------+----------------------------------------+

Bit d of Children is set when a child edge starts with nibble d. A branch's
Entry is the prefix shared by its whole subtree; a leaf's Entry is the member
key itself (Length == Nibbles). Address is where the record was read from and
is not part of the word.
*/
type Node struct {
	Children uint16
	Entry    Value
	Address  common.Hash
}

// Word packs the node into its storage word.
func (n Node) Word() common.Hash {
	w := Encode(n.Entry)
	w[3] &= 1<<48 - 1
	w[3] |= uint64(n.Children) << 48
	return common.Uint256ToHash(w)
}

func nodeFromWord(addr common.Hash, word common.Hash) Node {
	w := common.HashToUint256(word)
	children := uint16(w[3] >> 48)
	w[3] &= 1<<48 - 1
	return Node{Children: children, Entry: Decode(w), Address: addr}
}

// Kind classifies the record. Fixed-width keys never prefix one another, so
// a record carrying both children and a full-length entry is corrupt.
func (n Node) Kind() Kind {
	switch {
	case n.Children == 0 && n.Entry.IsZero():
		return KindEmpty
	case n.Children == 0 && n.Entry.Length == Nibbles:
		return KindLeaf
	case n.Children != 0 && n.Entry.Length < Nibbles:
		return KindBranch
	default:
		return KindCorrupt
	}
}

func (n Node) HasChild(d uint8) bool {
	return n.Children&(1<<d) != 0
}

func (n Node) ChildCount() int {
	return bits.OnesCount16(n.Children)
}

// Key returns the member a leaf holds.
func (n Node) Key() *uint256.Int {
	return n.Entry.Magnitude.Clone()
}

func (n Node) String() string {
	return fmt.Sprintf("%s{children=%016b entry=%s @%s}", n.Kind(), n.Children, n.Entry, n.Address.String_short())
}

// childrenBelow returns the child bits strictly below nibble d.
func childrenBelow(children uint16, d uint8) uint16 {
	return children & uint16(uint32(1)<<d-1)
}

// childrenAbove returns the child bits strictly above nibble d.
func childrenAbove(children uint16, d uint8) uint16 {
	return children &^ uint16(uint32(2)<<d-1)
}

func lowestChild(children uint16) uint8 {
	return uint8(bits.TrailingZeros16(children))
}

func highestChild(children uint16) uint8 {
	return uint8(15 - bits.LeadingZeros16(children))
}

func readNode(s storage.Store, addr common.Hash) (Node, error) {
	word, err := s.Read(addr)
	if err != nil {
		return Node{}, fmt.Errorf("read node %s: %w", addr.String_short(), err)
	}
	return nodeFromWord(addr, word), nil
}

// writeNode replaces the whole record at n.Address.
func writeNode(s storage.Store, n Node) error {
	if err := s.Write(n.Address, n.Word()); err != nil {
		return fmt.Errorf("write node %s: %w", n.Address.String_short(), err)
	}
	return nil
}

// clearNode resets the record at addr to the zero word.
func clearNode(s storage.Store, addr common.Hash) error {
	if err := s.Write(addr, common.Hash{}); err != nil {
		return fmt.Errorf("clear node %s: %w", addr.String_short(), err)
	}
	return nil
}
