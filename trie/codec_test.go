package trie

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestDomainConstants(t *testing.T) {
	assert.Equal(t, 6, RootDepth)
	assert.Equal(t, KeyBits, MaxValue.BitLen())
	assert.True(t, InRange(MaxValue))
	assert.False(t, InRange(new(uint256.Int).AddUint64(MaxValue, 1)))
	assert.False(t, InRange(nil))
}

func TestEncodeLayout(t *testing.T) {
	v := Value{Length: 5, Magnitude: *u(1)}
	assert.Equal(t, u(0x105), Encode(v))

	top := KeyValue(MaxValue)
	enc := Encode(top)
	assert.Equal(t, KeyBits+lengthBits, enc.BitLen())
	assert.Equal(t, uint64(Nibbles), enc.Uint64()&0xff)
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	cases := []Value{
		{},
		{Length: 7},
		{Length: 62, Magnitude: *u(0x1300)},
		KeyValue(u(0)),
		KeyValue(MaxValue),
	}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		n := RootDepth + 1 + r.Intn(Nibbles-RootDepth)
		cases = append(cases, Value{Length: uint8(n), Magnitude: *Prefix(randKey(r), n)})
	}
	for _, v := range cases {
		assert.Equal(t, v, Decode(Encode(v)), "roundtrip %s", v)
	}
}

func TestNibble(t *testing.T) {
	x := u(0x132F)
	assert.Equal(t, uint8(0), Nibble(x, 0))
	assert.Equal(t, uint8(1), Nibble(x, 60))
	assert.Equal(t, uint8(3), Nibble(x, 61))
	assert.Equal(t, uint8(2), Nibble(x, 62))
	assert.Equal(t, uint8(0xf), Nibble(x, 63))

	assert.Equal(t, uint8(0), Nibble(MaxValue, RootDepth-1))
	assert.Equal(t, uint8(0xf), Nibble(MaxValue, RootDepth))

	// nibbles straddling a limb boundary
	y := new(uint256.Int).Lsh(u(0xab), 60)
	assert.Equal(t, uint8(0xb), Nibble(y, 48))
	assert.Equal(t, uint8(0xa), Nibble(y, 47))
}

func TestPrefix(t *testing.T) {
	x := u(0x132F)
	assert.Equal(t, u(0x1300), Prefix(x, 62))
	assert.Equal(t, u(0x1320), Prefix(x, 63))
	assert.Equal(t, x, Prefix(x, Nibbles))
	assert.True(t, Prefix(x, 0).IsZero())
	assert.True(t, Prefix(MaxValue, RootDepth).IsZero())

	assert.True(t, hasPrefix(x, Value{Length: 62, Magnitude: *u(0x1300)}))
	assert.False(t, hasPrefix(x, Value{Length: 62, Magnitude: *u(0x1400)}))
}

func TestWithNibble(t *testing.T) {
	assert.Equal(t, u(0x1360), withNibble(u(0x1300), 62, 6))
	assert.Equal(t, new(uint256.Int).Lsh(u(0xf), 4*57), withNibble(new(uint256.Int), RootDepth, 0xf))
}

// randKey returns a uniformly random member value.
func randKey(r *rand.Rand) *uint256.Int {
	var x uint256.Int
	for i := range x {
		x[i] = r.Uint64()
	}
	return x.And(&x, MaxValue)
}
