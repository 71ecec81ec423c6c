package trie

import (
	"fmt"

	"github.com/colorfulnotion/radixset/trieerrors"
	"github.com/holiman/uint256"
)

// FindBranch returns the longest shared nibble prefix of a and b and its
// length. The caller asserts that a and b already agree on their first offset
// nibbles; if they diverge earlier, or a == b, or offset is outside
// [0, Nibbles), FindBranch fails with ErrWrongOffset instead of truncating.
//
// The first differing nibble is found from the leading zeros of a^b, so the
// check against offset and the scan are the same step.
func FindBranch(a, b *uint256.Int, offset int) (uint256.Int, int, error) {
	if offset < 0 || offset >= Nibbles {
		return uint256.Int{}, 0, fmt.Errorf("offset %d: %w", offset, trieerrors.ErrWrongOffset)
	}
	diff := new(uint256.Int).Xor(a, b)
	if diff.IsZero() {
		return uint256.Int{}, 0, fmt.Errorf("identical keys %s: %w", a.Hex(), trieerrors.ErrWrongOffset)
	}
	length := (256 - diff.BitLen()) / 4
	if length < offset {
		return uint256.Int{}, 0, fmt.Errorf("%s and %s diverge at nibble %d before offset %d: %w",
			a.Hex(), b.Hex(), length, offset, trieerrors.ErrWrongOffset)
	}
	return *Prefix(a, length), length, nil
}
