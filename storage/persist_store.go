package storage

import (
	"fmt"

	"github.com/colorfulnotion/radixset/common"
	"github.com/colorfulnotion/radixset/log"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// PersistenceStore wraps LevelDB as the flat word store that trie nodes live in.
// Keys are 32-byte addresses, values are 32-byte words. An absent key reads
// as the zero word and writing the zero word deletes the key, so the set of
// keys present is exactly the set of live nodes.
// Thread-safe: LevelDB handles its own synchronization.
type PersistenceStore struct {
	db *leveldb.DB
}

// NewPersistenceStore opens or creates a LevelDB database at the given path.
// If path is empty, uses in-memory storage.
func NewPersistenceStore(path string) (*PersistenceStore, error) {
	var db *leveldb.DB
	var err error

	if path == "" {
		memStorage := leveldbstorage.NewMemStorage()
		db, err = leveldb.Open(memStorage, nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	log.Debug(log.StorageMonitoring, "opened word store", "path", path)
	return &PersistenceStore{db: db}, nil
}

// NewMemoryPersistenceStore creates an in-memory PersistenceStore for testing.
func NewMemoryPersistenceStore() (*PersistenceStore, error) {
	return NewPersistenceStore("")
}

// Get retrieves a value by key. Returns (nil, false, nil) if not found.
func (ps *PersistenceStore) Get(key []byte) ([]byte, bool, error) {
	data, err := ps.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("Get %x: %w", key, err)
	}
	return data, true, nil
}

func (ps *PersistenceStore) Put(key []byte, value []byte) error {
	return ps.db.Put(key, value, nil)
}

func (ps *PersistenceStore) Delete(key []byte) error {
	return ps.db.Delete(key, nil)
}

// Read returns the word stored at addr, or the zero word if addr was never
// written.
func (ps *PersistenceStore) Read(addr common.Hash) (common.Hash, error) {
	data, found, err := ps.Get(addr.Bytes())
	if err != nil {
		return common.Hash{}, err
	}
	if !found {
		return common.Hash{}, nil
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("Read %s: word has %d bytes: %w", addr, len(data), ErrBadWord)
	}
	return common.BytesToHash(data), nil
}

// Write stores word at addr. The zero word removes the key.
func (ps *PersistenceStore) Write(addr common.Hash, word common.Hash) error {
	if common.IsNilHash(word) {
		return ps.Delete(addr.Bytes())
	}
	return ps.Put(addr.Bytes(), word.Bytes())
}

// WriteBatch applies all words in one LevelDB batch.
func (ps *PersistenceStore) WriteBatch(words map[common.Hash]common.Hash) error {
	batch := new(leveldb.Batch)
	for addr, word := range words {
		if common.IsNilHash(word) {
			batch.Delete(addr.Bytes())
		} else {
			batch.Put(addr.Bytes(), word.Bytes())
		}
	}
	if err := ps.db.Write(batch, nil); err != nil {
		return fmt.Errorf("WriteBatch of %d words: %w", batch.Len(), err)
	}
	return nil
}

// GetWithPrefix returns all key-value pairs with the given prefix.
// Returns pairs sorted by key order.
func (ps *PersistenceStore) GetWithPrefix(prefix []byte) ([][2][]byte, error) {
	iter := ps.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var results [][2][]byte
	for iter.Next() {
		// Copy key and value to avoid iterator reuse issues
		keyCopy := make([]byte, len(iter.Key()))
		copy(keyCopy, iter.Key())
		valueCopy := make([]byte, len(iter.Value()))
		copy(valueCopy, iter.Value())

		results = append(results, [2][]byte{keyCopy, valueCopy})
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("GetWithPrefix %x: %w", prefix, err)
	}

	return results, nil
}

// Addresses lists every address holding a non-zero word, in key order.
func (ps *PersistenceStore) Addresses() ([]common.Hash, error) {
	kvs, err := ps.GetWithPrefix(nil)
	if err != nil {
		return nil, err
	}
	out := make([]common.Hash, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, common.BytesToHash(kv[0]))
	}
	return out, nil
}

func (ps *PersistenceStore) Close() error {
	return ps.db.Close()
}
