package trie

import (
	"testing"

	"github.com/colorfulnotion/radixset/storage"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, cfg Config) (*Tree, *storage.PersistenceStore) {
	t.Helper()
	ps, err := storage.NewMemoryPersistenceStore()
	require.NoError(t, err)
	t.Cleanup(func() { ps.Close() })

	tree, err := NewNamed(ps, t.Name(), cfg)
	require.NoError(t, err)
	return tree, ps
}

func u(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}

func hexU(s string) *uint256.Int {
	return uint256.MustFromHex(s)
}

func liveAddresses(t *testing.T, ps *storage.PersistenceStore) []string {
	t.Helper()
	addrs, err := ps.Addresses()
	require.NoError(t, err)
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}
