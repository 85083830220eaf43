// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds short-lived state outside the vault engine: the
// derived keys that back a biometric unlock window and the open recovery
// sessions. Entries are owned by the store, expire on their own deadline and
// are removed by an explicit sweep.
package session

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a TTL map safe for concurrent use. An entry past its deadline is
// never returned, even before it is swept.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	onEvict func(V)
}

// StoreOption customises a [Store].
type StoreOption[V any] func(*Store[V])

// WithClock replaces time.Now.
func WithClock[V any](now func() time.Time) StoreOption[V] {
	return func(s *Store[V]) { s.now = now }
}

// WithEvict registers fn to be called with every value the store drops,
// whether deleted, replaced, expired or swept. A value handed out by
// [Store.Take] is owned by the caller and is not passed to fn. fn runs under
// the store lock and must not call back into the store.
func WithEvict[V any](fn func(V)) StoreOption[V] {
	return func(s *Store[V]) { s.onEvict = fn }
}

// NewStore creates a store whose entries live for ttl by default.
func NewStore[V any](ttl time.Duration, opts ...StoreOption[V]) *Store[V] {
	s := &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores v under key with the default TTL.
func (s *Store[V]) Put(key string, v V) {
	s.PutUntil(key, v, s.now().Add(s.ttl))
}

// PutUntil stores v under key until expiresAt.
func (s *Store[V]) PutUntil(key string, v V, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.evict(old.value)
	}
	s.entries[key] = entry[V]{value: v, expiresAt: expiresAt}
}

// Get returns the live value stored under key.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	return e.value, ok
}

// Inspect calls fn with the live value under key while holding the store
// lock, so fn may copy a value the evict hook would otherwise wipe
// concurrently. It reports whether fn was called. fn must not call back
// into the store.
func (s *Store[V]) Inspect(key string, fn func(V)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if ok {
		fn(e.value)
	}
	return ok
}

// Take returns the live value under key and removes it, handing ownership
// to the caller: the evict hook is not run for it. Expired entries are
// removed and reported as absent.
func (s *Store[V]) Take(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if ok {
		delete(s.entries, key)
	}
	return e.value, ok
}

// Delete removes key.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.evict(e.value)
	}
}

// Sweep removes every entry expired at now and returns how many were
// removed.
func (s *Store[V]) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			s.evict(e.value)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, including expired ones not yet swept.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// live must be called with mu held. An expired entry is dropped on sight.
func (s *Store[V]) live(key string) (entry[V], bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry[V]{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		s.evict(e.value)
		return entry[V]{}, false
	}
	return e, true
}

func (s *Store[V]) evict(v V) {
	if s.onEvict != nil {
		s.onEvict(v)
	}
}
