package hierarchy

import (
	"context"
	"errors"
)

// memoryStore is an in-memory Store that counts the reads it serves.
type memoryStore struct {
	parents  map[uint64]*uint64
	children map[uint64][]uint64

	parentReads int
	childReads  int
	txCount     int
	err         error
}

var errStoreDown = errors.New("store unavailable")

func newMemoryStore() *memoryStore {
	return &memoryStore{
		parents:  make(map[uint64]*uint64),
		children: make(map[uint64][]uint64),
	}
}

func (s *memoryStore) addRoot(id uint64) *memoryStore {
	s.parents[id] = nil
	return s
}

func (s *memoryStore) addChild(id, parentID uint64) *memoryStore {
	p := parentID
	s.parents[id] = &p
	s.children[parentID] = append(s.children[parentID], id)
	return s
}

// chain adds root <- ids[1] <- ids[2] ... and returns the store.
func (s *memoryStore) chain(ids ...uint64) *memoryStore {
	s.addRoot(ids[0])
	for i := 1; i < len(ids); i++ {
		s.addChild(ids[i], ids[i-1])
	}
	return s
}

func (s *memoryStore) reads() int {
	return s.parentReads + s.childReads
}

func (s *memoryStore) FetchParent(_ context.Context, id uint64) (*Node, error) {
	s.parentReads++
	if s.err != nil {
		return nil, s.err
	}
	parent, ok := s.parents[id]
	if !ok {
		return nil, nil
	}
	return &Node{ID: id, ParentOrganizationID: parent}, nil
}

func (s *memoryStore) FetchChildren(_ context.Context, id uint64) ([]uint64, error) {
	s.childReads++
	if s.err != nil {
		return nil, s.err
	}
	return append([]uint64(nil), s.children[id]...), nil
}

func (s *memoryStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	s.txCount++
	return fn(s)
}
