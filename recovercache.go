// Copyright 2024 The vlog Authors
// This file is part of the vlog library.
//
// The vlog library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The vlog library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the vlog library. If not, see <http://www.gnu.org/licenses/>.

package vlog

import (
	lru "github.com/hashicorp/golang-lru"
)

// RecoverCache wraps an Engine with an LRU of recently reconstructed
// states, keyed by version. It changes no observable semantics of Recover -
// every call still returns a state equal to replaying raw diffs 1..i from
// zero, and still returns a copy the caller is free to mutate - it only
// skips the bit-walk on a cache hit. Log entries are immutable once
// written, so a cached reconstruction for version i never goes stale while
// i <= the engine's version at the time of caching; entries for versions
// beyond the cache's capacity are simply evicted, never served wrong.
type RecoverCache[V Value] struct {
	engine *Engine[V]
	lru    *lru.Cache
}

// NewRecoverCache wraps engine with an LRU of the given capacity (number of
// distinct versions memoized).
func NewRecoverCache[V Value](engine *Engine[V], capacity int) *RecoverCache[V] {
	cache, err := lru.New(capacity)
	if err != nil {
		// Only returned by golang-lru for capacity <= 0.
		panic(err)
	}
	return &RecoverCache[V]{engine: engine, lru: cache}
}

// Recover returns the state at version i, consulting the LRU first.
func (r *RecoverCache[V]) Recover(i uint32) (State[V], error) {
	if v, ok := r.lru.Get(i); ok {
		cached := v.(State[V])
		out := make(State[V], len(cached))
		copy(out, cached)
		return out, nil
	}
	state, err := r.engine.Recover(i)
	if err != nil {
		return nil, err
	}
	stash := make(State[V], len(state))
	copy(stash, state)
	r.lru.Add(i, stash)
	return state, nil
}

// Append invalidates no cache entries - every Log entry touched by Recover
// is immutable once written, so past reconstructions remain valid forever;
// it simply forwards to the wrapped Engine.
func (r *RecoverCache[V]) Append(raw Diff[V]) error {
	return r.engine.Append(raw)
}

// Version forwards to the wrapped Engine.
func (r *RecoverCache[V]) Version() uint32 { return r.engine.Version() }

// Current forwards to the wrapped Engine.
func (r *RecoverCache[V]) Current() State[V] { return r.engine.Current() }

// StorageStats forwards to the wrapped Engine.
func (r *RecoverCache[V]) StorageStats() Stats { return r.engine.StorageStats() }
