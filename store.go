// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package respd

import (
	"math"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"
)

// entry is a stored value with an optional absolute expiry. A zero
// expiresAt means the value never expires.
type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && e.expiresAt.Before(now)
}

// Store is a concurrency-safe mapping from byte-string keys to values with
// optional expiry.
//
// Semantics:
//   - Keys are compared byte-wise; keys and values are arbitrary binary.
//   - Lazy expiry: an entry whose expiry lies strictly in the past is
//     logically absent. Every operation that observes such an entry evicts
//     it before returning; no background sweeper runs.
//   - Every method is one critical section. No method performs I/O or takes
//     a second lock, so operations are linearizable and deadlock-free.
//   - The store takes ownership of key and value slices passed in and hands
//     out its internal slices on reads; mutating operations (Append, IncrBy)
//     always allocate a fresh buffer instead of writing in place.
type Store struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{m: make(map[string]entry), now: time.Now}
}

// lookup returns the live entry for key, evicting it first if it expired.
// Callers must hold s.mu.
func (s *Store) lookup(key string, now time.Time) (entry, bool) {
	e, ok := s.m[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(now) {
		delete(s.m, key)
		return entry{}, false
	}
	return e, true
}

// Get returns the value stored under key, or false if the key is absent or
// expired.
func (s *Store) Get(key []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(string(key), s.now())
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Set stores value under key. An existing expiry on the key is preserved;
// an expired entry is treated as absent, so the new value carries no expiry.
func (s *Store) Set(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(key)
	e, _ := s.lookup(k, s.now())
	s.m[k] = entry{data: value, expiresAt: e.expiresAt}
}

// Delete removes each key that currently exists and returns the number of
// keys actually removed.
func (s *Store) Delete(keys ...[]byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var removed int64
	for _, key := range keys {
		if _, ok := s.lookup(string(key), now); ok {
			delete(s.m, string(key))
			removed++
		}
	}
	return removed
}

// Exists counts the keys currently present. Duplicate keys in the argument
// list count separately.
func (s *Store) Exists(keys ...[]byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var count int64
	for _, key := range keys {
		if _, ok := s.lookup(string(key), now); ok {
			count++
		}
	}
	return count
}

// Expire sets the time to live of key to the given number of seconds.
// It returns 0 if the key does not exist. If the key exists and seconds is
// zero or negative the key is deleted and 1 is returned.
func (s *Store) Expire(key []byte, seconds int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	k := string(key)
	e, ok := s.lookup(k, now)
	if !ok {
		return 0
	}
	if seconds <= 0 {
		delete(s.m, k)
		return 1
	}
	e.expiresAt = now.Add(time.Duration(seconds) * time.Second)
	s.m[k] = e
	return 1
}

// TTL returns -2 if the key is absent or expired, -1 if it is present
// without expiry, and otherwise the whole seconds remaining (floored,
// saturating at zero).
func (s *Store) TTL(key []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.lookup(string(key), now)
	if !ok {
		return -2
	}
	if e.expiresAt.IsZero() {
		return -1
	}
	remaining := e.expiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining / time.Second)
}

// IncrBy adds delta to the integer stored under key using saturating
// signed 64-bit arithmetic and returns the new value. An absent or expired
// key counts as "0" (a stale expiry is cleared); a live key keeps its
// expiry. ErrNotUTF8 or ErrNotInteger is returned when the stored bytes do
// not hold a decimal signed 64-bit integer.
func (s *Store) IncrBy(key []byte, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(key)
	e, ok := s.lookup(k, s.now())
	var current int64
	if ok {
		if !utf8.Valid(e.data) {
			return 0, ErrNotUTF8
		}
		v, err := strconv.ParseInt(string(e.data), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		current = v
	}
	next := saturatingAdd(current, delta)
	e.data = strconv.AppendInt(nil, next, 10)
	s.m[k] = e
	return next, nil
}

// Keys returns all live keys, evicting any expired entries found along the
// way. Order is unspecified.
func (s *Store) Keys() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	live := make([][]byte, 0, len(s.m))
	for k, e := range s.m {
		if e.expired(now) {
			delete(s.m, k)
			continue
		}
		live = append(live, []byte(k))
	}
	return live
}

// MSet stores each key/value pair, clearing any prior expiry. The pairs
// slice is interpreted as key, value, key, value, ...; a trailing odd
// element is ignored.
func (s *Store) MSet(pairs ...[]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.m[string(pairs[i])] = entry{data: pairs[i+1]}
	}
}

// MGet returns one result per input key in order; absent or expired keys
// yield a nil result. A nil key slice (as opposed to an empty key) also
// yields nil, which lets callers pre-mark non-key positions.
func (s *Store) MGet(keys ...[]byte) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	out := make([][]byte, 0, len(keys))
	for _, key := range keys {
		if key == nil {
			out = append(out, nil)
			continue
		}
		e, ok := s.lookup(string(key), now)
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, e.data)
	}
	return out
}

// StrLen returns the length in bytes of the value stored under key, or 0
// if the key is absent or expired.
func (s *Store) StrLen(key []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(string(key), s.now())
	if !ok {
		return 0
	}
	return int64(len(e.data))
}

// GetSet atomically stores value under key, clearing any expiry, and
// returns the previous value, or false if there was none (or it expired).
func (s *Store) GetSet(key, value []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(key)
	prev, ok := s.lookup(k, s.now())
	s.m[k] = entry{data: value}
	if !ok {
		return nil, false
	}
	return prev.data, true
}

// Append appends suffix to the value stored under key, treating an absent
// or expired key as holding the empty value, and returns the new total
// length. A live key keeps its expiry.
func (s *Store) Append(key, suffix []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(key)
	e, _ := s.lookup(k, s.now())
	grown := make([]byte, 0, len(e.data)+len(suffix))
	grown = append(grown, e.data...)
	grown = append(grown, suffix...)
	e.data = grown
	s.m[k] = e
	return int64(len(grown))
}

// Len returns the number of live entries. Expired entries found while
// counting are evicted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.m {
		if e.expired(now) {
			delete(s.m, k)
		}
	}
	return len(s.m)
}

func saturatingAdd(a, b int64) int64 {
	sum := a + b
	if a > 0 && b > 0 && sum < 0 {
		return math.MaxInt64
	}
	if a < 0 && b < 0 && sum >= 0 {
		return math.MinInt64
	}
	return sum
}
