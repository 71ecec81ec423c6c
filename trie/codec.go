package trie

import (
	"fmt"

	"github.com/holiman/uint256"
)

const (
	// KeyBits is the width of a member value.
	KeyBits = 232
	// Nibbles is the number of hexadecimal digits in the 256-bit addressing
	// space. Nibble 0 is the most significant.
	Nibbles = 64
	// RootDepth is the number of leading nibbles every valid key leaves at
	// zero. The root branches on nibble RootDepth.
	RootDepth = Nibbles - KeyBits/4

	lengthBits = 8
)

// MaxValue is the largest value the set can hold, 2^232-1.
var MaxValue = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), KeyBits), uint256.NewInt(1))

/*
Value is a compressed edge label: the first Length nibbles of Magnitude, with
every nibble at position >= Length zeroed. A Value of Length Nibbles is a
member key.

Packed form (one storage word, 240 bits used):

	+--------------------------------+----------+
	|  magnitude (232 bits)          | length   |
	|                                | (8 bits) |
	+--------------------------------+----------+
*/
type Value struct {
	Length    uint8
	Magnitude uint256.Int
}

// KeyValue returns the Value naming member x.
func KeyValue(x *uint256.Int) Value {
	return Value{Length: Nibbles, Magnitude: *x}
}

func (v Value) IsZero() bool {
	return v.Length == 0 && v.Magnitude.IsZero()
}

func (v Value) String() string {
	return fmt.Sprintf("%d:%s", v.Length, v.Magnitude.Hex())
}

// Encode packs v as magnitude<<8 | length.
func Encode(v Value) *uint256.Int {
	out := new(uint256.Int).Lsh(&v.Magnitude, lengthBits)
	out[0] |= uint64(v.Length)
	return out
}

// Decode unpacks a word produced by Encode. Any input decodes to some Value.
func Decode(packed *uint256.Int) Value {
	var v Value
	v.Length = uint8(packed[0] & 0xff)
	v.Magnitude.Rsh(packed, lengthBits)
	return v
}

// nibbleShift is the bit offset of nibble i counted from the least
// significant end.
func nibbleShift(i int) uint {
	return uint(4 * (Nibbles - 1 - i))
}

// Nibble returns hexadecimal digit i of x, 0 being the most significant.
func Nibble(x *uint256.Int, i int) uint8 {
	p := nibbleShift(i)
	return uint8(x[p/64]>>(p%64)) & 0xf
}

// withNibble returns a copy of x with digit i set to d. Digit i of x must be
// zero.
func withNibble(x *uint256.Int, i int, d uint8) *uint256.Int {
	out := x.Clone()
	p := nibbleShift(i)
	out[p/64] |= uint64(d) << (p % 64)
	return out
}

// Prefix returns x with every nibble at position >= n cleared.
func Prefix(x *uint256.Int, n int) *uint256.Int {
	switch {
	case n >= Nibbles:
		return x.Clone()
	case n <= 0:
		return new(uint256.Int)
	}
	k := uint(4 * (Nibbles - n))
	out := new(uint256.Int).Rsh(x, k)
	return out.Lsh(out, k)
}

// hasPrefix reports whether the first v.Length nibbles of x equal v.
func hasPrefix(x *uint256.Int, v Value) bool {
	return Prefix(x, int(v.Length)).Eq(&v.Magnitude)
}

// InRange reports whether x is a valid member value.
func InRange(x *uint256.Int) bool {
	return x != nil && x.BitLen() <= KeyBits
}
