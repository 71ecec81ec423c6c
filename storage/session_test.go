package storage

import (
	"errors"
	"testing"

	"github.com/colorfulnotion/radixset/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialStore records writes in call order and has no batch support.
type sequentialStore struct {
	words   map[common.Hash]common.Hash
	written []common.Hash
	failAt  int
}

func newSequentialStore() *sequentialStore {
	return &sequentialStore{words: make(map[common.Hash]common.Hash), failAt: -1}
}

func (s *sequentialStore) Read(addr common.Hash) (common.Hash, error) {
	return s.words[addr], nil
}

func (s *sequentialStore) Write(addr common.Hash, word common.Hash) error {
	if s.failAt == len(s.written) {
		return errors.New("disk full")
	}
	s.written = append(s.written, addr)
	s.words[addr] = word
	return nil
}

func TestSessionStagesUntilCommit(t *testing.T) {
	ps, err := NewMemoryPersistenceStore()
	require.NoError(t, err)
	defer ps.Close()

	addr := common.Blake2Hash([]byte("slot"))
	s := NewSession(ps)
	require.NoError(t, s.Write(addr, common.HexToHash("0x2a")))

	staged, err := s.Read(addr)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x2a"), staged)

	backing, err := ps.Read(addr)
	require.NoError(t, err)
	assert.True(t, common.IsNilHash(backing), "store must not see staged words")
	assert.True(t, s.HasStagedChanges())

	require.NoError(t, s.Commit())
	assert.False(t, s.HasStagedChanges())
	backing, err = ps.Read(addr)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x2a"), backing)
	assert.Equal(t, 0, s.Reads(), "staged reads never reach the store")
	assert.Equal(t, 1, s.Writes())
}

func TestSessionRollback(t *testing.T) {
	ps, err := NewMemoryPersistenceStore()
	require.NoError(t, err)
	defer ps.Close()

	s := NewSession(ps)
	addr := common.Blake2Hash([]byte("slot"))
	require.NoError(t, s.Write(addr, common.HexToHash("0x01")))
	s.Rollback()
	assert.Equal(t, 0, s.StagedSize())
	require.NoError(t, s.Commit())

	addrs, err := ps.Addresses()
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestSessionSequentialCommitOrder(t *testing.T) {
	st := newSequentialStore()
	s := NewSession(st)

	a := common.Blake2Hash([]byte("a"))
	b := common.Blake2Hash([]byte("b"))
	require.NoError(t, s.Write(b, common.HexToHash("0x01")))
	require.NoError(t, s.Write(a, common.HexToHash("0x02")))
	require.NoError(t, s.Write(b, common.HexToHash("0x03")))
	require.NoError(t, s.Commit())

	assert.Equal(t, []common.Hash{b, a}, st.written)
	assert.Equal(t, common.HexToHash("0x03"), st.words[b])
}

func TestSessionCommitError(t *testing.T) {
	st := newSequentialStore()
	st.failAt = 0
	s := NewSession(st)
	require.NoError(t, s.Write(common.Blake2Hash([]byte("a")), common.HexToHash("0x01")))
	assert.Error(t, s.Commit())
	assert.True(t, s.HasStagedChanges(), "failed commit keeps the stage for the caller to roll back")
}

func TestSessionCountsStoreReads(t *testing.T) {
	store := newSequentialStore()
	s := NewSession(store)
	staged := common.Blake2Hash([]byte("staged"))
	backing := common.Blake2Hash([]byte("backing"))

	require.NoError(t, s.Write(staged, common.HexToHash("0x07")))
	for i := 0; i < 3; i++ {
		_, err := s.Read(staged)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, s.Reads())

	_, err := s.Read(backing)
	require.NoError(t, err)
	_, err = s.Read(backing)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Reads())
}
