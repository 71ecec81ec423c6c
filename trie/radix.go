package trie

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/colorfulnotion/radixset/common"
	"github.com/colorfulnotion/radixset/log"
	"github.com/colorfulnotion/radixset/storage"
	"github.com/colorfulnotion/radixset/trieerrors"
	"github.com/holiman/uint256"
)

// Config selects how a tree derives node addresses.
type Config struct {
	// HashType is common.Blake2b (default) or common.Keccak.
	HashType string
}

// Stats counts backing-store reads and staged writes. Reads answered from an
// operation's own pending writes are not counted. Ops counts successful
// mutating calls.
type Stats struct {
	Ops    uint64
	Reads  uint64
	Writes uint64
}

// Tree is a sorted set of values in [0, 2^232-1] stored as a radix-16 trie
// with path compression. Nodes live in a flat word store at addresses derived
// from the tree identity and the node's prefix, so many trees can share one
// store.
//
// Tree does no locking. Mutations against one tree must be serialized by the
// caller; reads may run concurrently with each other.
type Tree struct {
	store  storage.Store
	addr   Addressing
	logger log.Logger

	ops    atomic.Uint64
	reads  atomic.Uint64
	writes atomic.Uint64
}

// New opens the tree identified by id in store. A tree that was never
// written is empty.
func New(store storage.Store, id common.Hash, cfg Config) (*Tree, error) {
	hashType := cfg.HashType
	if hashType == "" {
		hashType = common.Blake2b
	}
	if !common.ValidHashType(hashType) {
		return nil, fmt.Errorf("hash type %q: %w", cfg.HashType, trieerrors.ErrCUnknownHashType)
	}
	return &Tree{
		store:  store,
		addr:   NewAddressing(id, hashType),
		logger: log.New("tree", id.String_short()),
	}, nil
}

// NewNamed opens the tree whose identity is derived from name.
func NewNamed(store storage.Store, name string, cfg Config) (*Tree, error) {
	hashType := cfg.HashType
	if hashType == "" {
		hashType = common.Blake2b
	}
	return New(store, TreeID(name, hashType), cfg)
}

func (t *Tree) ID() common.Hash {
	return t.addr.RootAddress()
}

func (t *Tree) RootAddress() common.Hash {
	return t.addr.RootAddress()
}

func (t *Tree) NodeAddress(v Value) common.Hash {
	return t.addr.NodeAddress(v)
}

func (t *Tree) Stats() Stats {
	return Stats{Ops: t.ops.Load(), Reads: t.reads.Load(), Writes: t.writes.Load()}
}

func checkRange(x *uint256.Int) error {
	if x == nil {
		return fmt.Errorf("nil value: %w", trieerrors.ErrOutOfRange)
	}
	if !InRange(x) {
		return fmt.Errorf("%s: %w", x.Hex(), trieerrors.ErrOutOfRange)
	}
	return nil
}

// apply runs fn against a fresh session and commits its writes as one batch.
// On any error the session is dropped, so the store is left untouched.
func (t *Tree) apply(op string, fn func(s *storage.Session) error) error {
	s := storage.NewSession(t.store)
	if err := fn(s); err != nil {
		s.Rollback()
		if trieerrors.IsFatal(err) {
			t.logger.Error(log.TrieMonitoring, "trie invariant broken", "op", op, "err", err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Commit(); err != nil {
		s.Rollback()
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	t.ops.Add(1)
	t.reads.Add(uint64(s.Reads()))
	t.writes.Add(uint64(s.Writes()))
	t.logger.Debug(log.TrieMonitoring, op, "reads", s.Reads(), "writes", s.Writes())
	return nil
}

// view runs a read-only fn through a session so accesses are counted.
func (t *Tree) view(op string, fn func(s *storage.Session) error) error {
	s := storage.NewSession(t.store)
	if err := fn(s); err != nil {
		if trieerrors.IsFatal(err) {
			t.logger.Error(log.TrieMonitoring, "trie invariant broken", "op", op, "err", err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	t.reads.Add(uint64(s.Reads()))
	t.logger.Trace(log.TrieMonitoring, op, "reads", s.Reads())
	return nil
}

// Add inserts x. Adding a member again changes nothing.
func (t *Tree) Add(x *uint256.Int) error {
	if err := checkRange(x); err != nil {
		return err
	}
	return t.apply("add", func(s *storage.Session) error {
		_, err := t.add(s, x)
		return err
	})
}

// Remove deletes x. Removing a value that is not a member changes nothing.
func (t *Tree) Remove(x *uint256.Int) error {
	if err := checkRange(x); err != nil {
		return err
	}
	return t.apply("remove", func(s *storage.Session) error {
		removed, err := t.remove(s, x)
		if err == nil && !removed {
			t.logger.Debug(log.TrieMonitoring, "remove of absent value", "value", x.Hex())
		}
		return err
	})
}

// Update moves a member from one value to another: from is removed and to
// is added, both committed together.
func (t *Tree) Update(from, to *uint256.Int) error {
	if err := checkRange(from); err != nil {
		return err
	}
	if err := checkRange(to); err != nil {
		return err
	}
	if from.Eq(to) {
		return nil
	}
	return t.apply("update", func(s *storage.Session) error {
		if _, err := t.remove(s, from); err != nil {
			return err
		}
		_, err := t.add(s, to)
		return err
	})
}

func (t *Tree) corrupt(n Node, depth int) error {
	return fmt.Errorf("%s at depth %d: %w", n, depth, trieerrors.ErrCorruptNode)
}

// descend reads the child of parent that x continues into, checking that the
// record is consistent with being reached at depth.
func (t *Tree) descend(s storage.Store, x *uint256.Int, depth int) (Node, error) {
	child, err := readNode(s, t.addr.slotAddress(x, depth))
	if err != nil {
		return Node{}, err
	}
	switch child.Kind() {
	case KindLeaf:
		return child, nil
	case KindBranch:
		if int(child.Entry.Length) <= depth {
			return Node{}, t.corrupt(child, depth)
		}
		return child, nil
	default:
		return Node{}, t.corrupt(child, depth)
	}
}

func (t *Tree) add(s storage.Store, x *uint256.Int) (bool, error) {
	parent, err := readNode(s, t.addr.RootAddress())
	if err != nil {
		return false, err
	}
	depth := RootDepth
	for {
		d := Nibble(x, depth)
		if !parent.HasChild(d) {
			leaf := Node{Entry: KeyValue(x), Address: t.addr.slotAddress(x, depth)}
			if err := writeNode(s, leaf); err != nil {
				return false, err
			}
			parent.Children |= 1 << d
			return true, writeNode(s, parent)
		}
		child, err := t.descend(s, x, depth)
		if err != nil {
			return false, err
		}
		if child.Kind() == KindLeaf && child.Entry.Magnitude.Eq(x) {
			return false, nil
		}
		if child.Kind() == KindBranch && hasPrefix(x, child.Entry) {
			parent, depth = child, int(child.Entry.Length)
			continue
		}
		return true, t.split(s, child, x, depth)
	}
}

// split puts a new branch into the slot held by old, at the point where x
// leaves old's edge. old moves under the branch; x becomes its sibling leaf.
func (t *Tree) split(s storage.Store, old Node, x *uint256.Int, depth int) error {
	prefix, n, err := FindBranch(x, &old.Entry.Magnitude, depth+1)
	if err != nil {
		return fmt.Errorf("split below depth %d: %w", depth, err)
	}
	oldNib, newNib := Nibble(&old.Entry.Magnitude, n), Nibble(x, n)

	moved := old
	moved.Address = t.addr.slotAddress(&old.Entry.Magnitude, n)
	leaf := Node{Entry: KeyValue(x), Address: t.addr.slotAddress(x, n)}
	branch := Node{
		Children: 1<<oldNib | 1<<newNib,
		Entry:    Value{Length: uint8(n), Magnitude: prefix},
		Address:  old.Address,
	}
	t.logger.Trace(log.TrieMonitoring, "split", "depth", depth, "branch", branch.Entry, "value", x.Hex())

	for _, node := range []Node{moved, leaf, branch} {
		if err := writeNode(s, node); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) remove(s storage.Store, x *uint256.Int) (bool, error) {
	parent, err := readNode(s, t.addr.RootAddress())
	if err != nil {
		return false, err
	}
	depth := RootDepth
	for {
		d := Nibble(x, depth)
		if !parent.HasChild(d) {
			return false, nil
		}
		child, err := t.descend(s, x, depth)
		if err != nil {
			return false, err
		}
		if child.Kind() == KindBranch {
			if !hasPrefix(x, child.Entry) {
				return false, nil
			}
			parent, depth = child, int(child.Entry.Length)
			continue
		}
		if !child.Entry.Magnitude.Eq(x) {
			return false, nil
		}
		if err := clearNode(s, child.Address); err != nil {
			return false, err
		}
		parent.Children &^= 1 << d
		return true, t.collapse(s, parent, depth)
	}
}

// collapse rewrites parent after it lost a child. A non-root branch left with
// a single child is replaced by that child, which moves up into the branch's
// slot.
func (t *Tree) collapse(s storage.Store, parent Node, depth int) error {
	if parent.Address == t.addr.RootAddress() {
		return writeNode(s, parent)
	}
	switch bits.OnesCount16(parent.Children) {
	case 0:
		return t.corrupt(parent, depth)
	case 1:
		onlyAddr := t.addr.childAddress(parent.Entry, depth, lowestChild(parent.Children))
		only, err := readNode(s, onlyAddr)
		if err != nil {
			return err
		}
		if k := only.Kind(); k != KindLeaf && k != KindBranch {
			return t.corrupt(only, depth+1)
		}
		if err := clearNode(s, onlyAddr); err != nil {
			return err
		}
		t.logger.Trace(log.TrieMonitoring, "merge", "branch", parent.Entry, "into", only.Entry)
		only.Address = parent.Address
		return writeNode(s, only)
	default:
		return writeNode(s, parent)
	}
}
