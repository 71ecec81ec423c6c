package storage

import (
	"fmt"

	"github.com/colorfulnotion/radixset/common"
	"github.com/colorfulnotion/radixset/log"
)

// Session stages writes against a Store. Reads see staged words first.
// Nothing reaches the backing store until Commit; Rollback drops the stage.
type Session struct {
	store  Store
	staged map[common.Hash]common.Hash
	order  []common.Hash // first-write order, used when the store cannot batch

	reads  int
	writes int
}

func NewSession(store Store) *Session {
	return &Session{
		store:  store,
		staged: make(map[common.Hash]common.Hash),
	}
}

// Read returns the staged word for addr, falling through to the store.
func (s *Session) Read(addr common.Hash) (common.Hash, error) {
	if word, ok := s.staged[addr]; ok {
		return word, nil
	}
	s.reads++
	return s.store.Read(addr)
}

// Write stages word at addr.
func (s *Session) Write(addr common.Hash, word common.Hash) error {
	s.writes++
	if _, ok := s.staged[addr]; !ok {
		s.order = append(s.order, addr)
	}
	s.staged[addr] = word
	return nil
}

// Commit flushes the staged words. Stores implementing Batcher receive them
// in a single batch; others get one Write per address.
func (s *Session) Commit() error {
	if len(s.staged) == 0 {
		return nil
	}
	if b, ok := s.store.(Batcher); ok {
		if err := b.WriteBatch(s.staged); err != nil {
			return err
		}
	} else {
		for _, addr := range s.order {
			if err := s.store.Write(addr, s.staged[addr]); err != nil {
				return fmt.Errorf("commit %s: %w", addr.String_short(), err)
			}
		}
	}
	log.Trace(log.StorageMonitoring, "session committed", "words", len(s.staged), "reads", s.reads, "writes", s.writes)
	s.reset()
	return nil
}

// Rollback discards every staged write.
func (s *Session) Rollback() {
	if len(s.staged) > 0 {
		log.Debug(log.StorageMonitoring, "session rolled back", "words", len(s.staged))
	}
	s.reset()
}

func (s *Session) reset() {
	s.staged = make(map[common.Hash]common.Hash)
	s.order = s.order[:0]
}

func (s *Session) HasStagedChanges() bool {
	return len(s.staged) > 0
}

func (s *Session) StagedSize() int {
	return len(s.staged)
}

// Reads counts reads that reached the backing store; Writes counts every
// staged write. Both run from session creation.
func (s *Session) Reads() int  { return s.reads }
func (s *Session) Writes() int { return s.writes }
