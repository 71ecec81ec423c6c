package storage

import (
	"errors"

	"github.com/colorfulnotion/radixset/common"
)

var ErrBadWord = errors.New("stored word is not 32 bytes")

// Store is the flat word substrate a trie lives in. An address that was
// never written must read as the zero word.
type Store interface {
	Read(addr common.Hash) (common.Hash, error)
	Write(addr common.Hash, word common.Hash) error
}

// Batcher is implemented by stores that can apply a set of writes
// atomically.
type Batcher interface {
	WriteBatch(words map[common.Hash]common.Hash) error
}

var (
	_ Store   = (*PersistenceStore)(nil)
	_ Batcher = (*PersistenceStore)(nil)
	_ Store   = (*Session)(nil)
)
