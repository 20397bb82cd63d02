// Package cache provides a small in-process LRU cache with TTL, used to
// memoize insight computations between ledger writes.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type Store[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	index    map[string]*list.Element
	order    *list.List
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

func NewStore[T any](capacity int, ttl time.Duration) *Store[T] {
	return &Store[T]{
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	elem, ok := s.index[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		s.evict(elem)
		return zero, false
	}

	s.order.MoveToFront(elem)
	return e.value, true
}

func (s *Store[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry[T]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(s.ttl),
	}

	if elem, ok := s.index[key]; ok {
		elem.Value = e
		s.order.MoveToFront(elem)
		return
	}

	s.index[key] = s.order.PushFront(e)

	if s.order.Len() > s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.evict(oldest)
		}
	}
}

func (s *Store[T]) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.index[key]; ok {
		s.evict(elem)
	}
}

// Flush empties the store. Called after every ledger write since any cached
// insight may now be stale.
func (s *Store[T]) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = make(map[string]*list.Element)
	s.order.Init()
}

// DropExpired removes entries past their TTL and reports how many went.
func (s *Store[T]) DropExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var stale []*list.Element
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		s.evict(elem)
	}
	return len(stale)
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

func (s *Store[T]) evict(elem *list.Element) {
	delete(s.index, elem.Value.(*entry[T]).key)
	s.order.Remove(elem)
}
