package trie

import (
	"testing"

	"github.com/colorfulnotion/radixset/trieerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestFindBranchExample(t *testing.T) {
	branch, n, err := FindBranch(u(0x132F), u(0x1360), 0)
	require.NoError(t, err)
	assert.Equal(t, 62, n)
	assert.Equal(t, u(0x1300), &branch)

	// Same digits placed at the top of the word.
	a := new(uint256.Int).Lsh(u(0x132F), 240)
	b := new(uint256.Int).Lsh(u(0x1360), 240)
	branch, n, err = FindBranch(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, new(uint256.Int).Lsh(u(0x13), 248), &branch)

	// Claiming the two agreed nibbles is still fine.
	_, n, err = FindBranch(a, b, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFindBranchWrongOffset(t *testing.T) {
	a := new(uint256.Int).Lsh(u(0x132F), 240)
	b := new(uint256.Int).Lsh(u(0x1360), 240)

	_, _, err := FindBranch(a, b, 3)
	assert.ErrorIs(t, err, trieerrors.ErrWrongOffset)

	_, _, err = FindBranch(a, a, 0)
	assert.ErrorIs(t, err, trieerrors.ErrWrongOffset)

	_, _, err = FindBranch(a, b, -1)
	assert.ErrorIs(t, err, trieerrors.ErrWrongOffset)

	_, _, err = FindBranch(a, b, Nibbles)
	assert.ErrorIs(t, err, trieerrors.ErrWrongOffset)
}

func TestFindBranchLastNibble(t *testing.T) {
	branch, n, err := FindBranch(u(0x10), u(0x11), 63)
	require.NoError(t, err)
	assert.Equal(t, 63, n)
	assert.Equal(t, u(0x10), &branch)
}

func TestFindBranchProperties(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		a := randKey(r)
		// share a random number of leading nibbles with a
		keep := RootDepth + r.Intn(Nibbles-RootDepth)
		b := new(uint256.Int).Or(Prefix(a, keep), new(uint256.Int).Rsh(randKey(r), uint(4*(keep-RootDepth))))
		if a.Eq(b) {
			continue
		}
		truth := (256 - new(uint256.Int).Xor(a, b).BitLen()) / 4
		offset := r.Intn(truth + 1)

		branch, n, err := FindBranch(a, b, offset)
		require.NoError(t, err)
		assert.Equal(t, truth, n)
		assert.GreaterOrEqual(t, n, offset)
		assert.Less(t, n, Nibbles)
		assert.False(t, branch.Gt(a), "branch must not exceed a")
		assert.False(t, branch.Gt(b), "branch must not exceed b")
		assert.Equal(t, Prefix(&branch, n), &branch, "digits after the branch must be zero")
		assert.Equal(t, Prefix(a, n), Prefix(b, n))
		assert.NotEqual(t, Nibble(a, n), Nibble(b, n))

		if truth+1 < Nibbles {
			_, _, err = FindBranch(a, b, truth+1+r.Intn(Nibbles-truth-1))
			assert.ErrorIs(t, err, trieerrors.ErrWrongOffset)
		}
	}
}
