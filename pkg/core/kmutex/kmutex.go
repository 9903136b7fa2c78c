// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package kmutex provides a keyed mutual exclusion primitive. Each
// distinct key owns an independent serialization point, so operations
// on different keys never contend, while operations on one key are
// totally ordered. The ledger and board use cases rely on it in order
// to serialize mutating operations per business key (the normalized
// plate for parking sessions and the service id for washing jobs)
// without a single global mutex.
package kmutex

import "sync"

// KMutex is a set of mutexes which are indexed by a comparable key.
// The zero value is not usable; instances must be created by New.
// Locks are reference counted and a key's mutex is released from the
// internal map when its last user unlocks it, so the map does not
// grow with the number of keys which were ever locked, but with the
// number of concurrently locked keys.
type KMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New instantiates an empty keyed mutex set.
func New[K comparable]() *KMutex[K] {
	return &KMutex[K]{locks: make(map[K]*keyLock)}
}

// Lock acquires the mutex of the k key, blocking while another
// goroutine holds it. Locks of distinct keys are independent.
func (km *KMutex[K]) Lock(k K) {
	km.mu.Lock()
	l, ok := km.locks[k]
	if !ok {
		l = &keyLock{}
		km.locks[k] = l
	}
	l.refs++
	km.mu.Unlock()
	l.mu.Lock()
}

// Unlock releases the mutex of the k key. Unlocking a key which is
// not locked by the caller is a programming error, similar to
// unlocking an unlocked sync.Mutex.
func (km *KMutex[K]) Unlock(k K) {
	km.mu.Lock()
	l, ok := km.locks[k]
	if !ok {
		km.mu.Unlock()
		panic("kmutex: unlock of unlocked key")
	}
	l.refs--
	if l.refs == 0 {
		delete(km.locks, k)
	}
	km.mu.Unlock()
	l.mu.Unlock()
}
