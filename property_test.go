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
	"math/bits"
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"
)

const propertyStateSize = 32

// randomRawDiff samples 0..3 (index, value) pairs against current, the same
// generator shape the reference workload uses.
func randomRawDiff(rnd *rand.Rand, current []uint64) Diff[uint64] {
	n := rnd.Intn(4)
	d := NewDiff[uint64]()
	for i := 0; i < n; i++ {
		idx := uint32(rnd.Intn(len(current)))
		d[idx] = Pair[uint64]{Expected: current[idx], New: rnd.Uint64()}
	}
	return d
}

// buildRandomSequence appends n random raw diffs to a fresh Engine, keeping
// a shadow state and the raw diffs themselves so properties can be checked
// against an independent recomputation.
func buildRandomSequence(t *testing.T, n int, seed int64) (*Engine[uint64], []Diff[uint64], [][]uint64) {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	e := New[uint64](propertyStateSize)
	raws := make([]Diff[uint64], 0, n)
	shadows := make([][]uint64, 0, n+1)
	shadow := make([]uint64, propertyStateSize)
	shadows = append(shadows, append([]uint64(nil), shadow...))

	for i := 0; i < n; i++ {
		raw := randomRawDiff(rnd, shadow)
		for idx, pair := range raw {
			shadow[idx] = pair.New
		}
		require.NoError(t, e.Append(raw))
		raws = append(raws, raw)
		shadows = append(shadows, append([]uint64(nil), shadow...))
	}
	return e, raws, shadows
}

// Recover(i) equals replaying raw diffs 1..i from zero, for every
// 0 <= i <= N, and Recover(N) equals Current().
func TestPropertyRoundTrip(t *testing.T) {
	e, _, shadows := buildRandomSequence(t, 200, 1)
	for i := 0; i <= int(e.Version()); i++ {
		got, err := e.Recover(uint32(i))
		require.NoError(t, err)
		require.Equal(t, shadows[i], []uint64(got), "recover(%d) diverged", i)
	}
	current, err := e.Recover(e.Version())
	require.NoError(t, err)
	require.Equal(t, []uint64(e.Current()), []uint64(current))
}

// Version() tracks the number of successful appends exactly.
func TestPropertyMonotonicity(t *testing.T) {
	e := New[uint64](propertyStateSize)
	rnd := rand.New(rand.NewSource(2))
	shadow := make([]uint64, propertyStateSize)
	for i := uint32(0); i < 500; i++ {
		raw := randomRawDiff(rnd, shadow)
		for idx, pair := range raw {
			shadow[idx] = pair.New
		}
		require.NoError(t, e.Append(raw))
		require.Equal(t, i+1, e.Version())
	}
}

// No stored Log entry contains a key with Expected == New.
func TestPropertyDiffMinimality(t *testing.T) {
	e, _, _ := buildRandomSequence(t, 300, 3)
	for k := uint32(0); k < e.Version(); k++ {
		for idx, pair := range e.logEntry(k) {
			require.NotEqual(t, pair.Expected, pair.New,
				"Log[%d] retains a no-op key %d", k, idx)
		}
	}
}

// Property 4: for every 1 <= k <= N, Log[k-1] equals the union of raw diffs
// (k - 2^(lsb(k)-1) + 1)..k, verified by an independent recomputation.
func TestPropertyLogCoverage(t *testing.T) {
	e, raws, _ := buildRandomSequence(t, 256, 4)
	for k := uint32(1); k <= e.Version(); k++ {
		blockSize := uint32(1) << uint(bits.TrailingZeros32(k))
		start := k - blockSize + 1

		recomputed := NewDiff[uint64]()
		for v := start; v <= k; v++ {
			require.NoError(t, recomputed.Union(raws[v-1].Clone()))
		}
		actual := e.logEntry(k - 1)

		requireSameKeys(t, k, recomputed, actual)
		if diff := pretty.Compare(recomputed, actual); diff != "" {
			t.Fatalf("Log[%d] coverage mismatch:\n%s", k-1, diff)
		}
	}
}

// requireSameKeys compares the key sets of two Diffs via golang-set, so a
// coverage mismatch reports which specific indices are extra or missing
// before the full pretty.Compare dump.
func requireSameKeys(t *testing.T, k uint32, want, got Diff[uint64]) {
	t.Helper()
	wantSet := mapset.NewThreadUnsafeSet()
	for idx := range want {
		wantSet.Add(idx)
	}
	gotSet := mapset.NewThreadUnsafeSet()
	for idx := range got {
		gotSet.Add(idx)
	}
	if !wantSet.Equal(gotSet) {
		t.Fatalf("Log[%d] key set mismatch: want %v, got %v", k-1, wantSet, gotSet)
	}
}

// Property 5: cache depth never exceeds ceil(log2(N+1))+1.
func TestPropertyCacheDepthBound(t *testing.T) {
	e := New[uint64](propertyStateSize)
	rnd := rand.New(rand.NewSource(5))
	shadow := make([]uint64, propertyStateSize)
	for i := uint32(0); i < 1000; i++ {
		raw := randomRawDiff(rnd, shadow)
		for idx, pair := range raw {
			shadow[idx] = pair.New
		}
		require.NoError(t, e.Append(raw))
		n := e.Version()
		bound := ceilLog2(n+1) + 1
		require.LessOrEqualf(t, len(e.cache), bound,
			"cache depth %d exceeds bound %d at version %d", len(e.cache), bound, n)
	}
}

func ceilLog2(n uint32) int {
	if n <= 1 {
		return 0
	}
	return bits.Len32(n - 1)
}

// Property 6: appending an empty diff advances version and leaves the
// previous block's accumulator unchanged by union with the empty diff.
func TestPropertyIdempotentZeroDiff(t *testing.T) {
	e, _, _ := buildRandomSequence(t, 50, 6)
	before := e.Version()
	beforeLog := e.logEntry(before - 1).Clone()

	require.NoError(t, e.Append(NewDiff[uint64]()))
	require.Equal(t, before+1, e.Version())

	// The new Log entry is the previous accumulator unioned with the empty
	// diff, which is the accumulator unchanged.
	blockSize := uint32(1) << uint(bits.TrailingZeros32(e.Version()))
	if blockSize == 1 {
		require.Empty(t, e.logEntry(e.Version()-1))
	} else {
		require.Equal(t, beforeLog, e.logEntry(e.Version()-1))
	}
}
