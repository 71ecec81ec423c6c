package trie

import (
	"github.com/colorfulnotion/radixset/common"
	"github.com/holiman/uint256"
)

// nodeTag separates keyed node addresses from tree identifiers.
var nodeTag = []byte("$radix_node")

var treeTag = []byte("$radix_tree")

// TreeID derives a tree's base identifier from a human readable name.
func TreeID(name string, hashType string) common.Hash {
	return common.HashParts(hashType, treeTag, []byte(name))
}

// Addressing maps node Values of one tree to storage addresses.
type Addressing struct {
	base     common.Hash
	hashType string
}

func NewAddressing(base common.Hash, hashType string) Addressing {
	return Addressing{base: base, hashType: hashType}
}

// RootAddress is the fixed slot of the tree's root record.
func (a Addressing) RootAddress() common.Hash {
	return a.base
}

// NodeAddress returns H(nodeTag || base || Encode(v)). It depends on nothing
// but the tree identity and v.
func (a Addressing) NodeAddress(v Value) common.Hash {
	enc := Encode(v).Bytes32()
	return common.HashParts(a.hashType, nodeTag, a.base[:], enc[:])
}

// childAddress is the slot of the child hanging off nibble d of a node whose
// prefix is the first depth nibbles of prefix.
func (a Addressing) childAddress(prefix Value, depth int, d uint8) common.Hash {
	slot := withNibble(Prefix(&prefix.Magnitude, depth), depth, d)
	return a.NodeAddress(Value{Length: uint8(depth + 1), Magnitude: *slot})
}

// slotAddress is the slot reached by x after consuming depth nibbles.
func (a Addressing) slotAddress(x *uint256.Int, depth int) common.Hash {
	return a.NodeAddress(Value{Length: uint8(depth + 1), Magnitude: *Prefix(x, depth+1)})
}
