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

package workload

import (
	"testing"

	"github.com/vlogdb/vlog/config"
)

// Scenario E, scaled down: the shipped smoke test - every intermediate
// recover must equal the re-simulated live state for a reproducible seed.
func TestRunVerifiesCleanly(t *testing.T) {
	cfg := config.Workload{
		StateSize: 64,
		Rounds:    512,
		MaxStep:   8,
		Seed:      0,
		Verify:    true,
	}
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Verified {
		t.Fatalf("expected a clean verification, got %d mismatches", res.Mismatches)
	}
	if res.Stats.FullBytes == 0 {
		t.Fatalf("expected nonzero storage stats")
	}
}

func TestRunSkipsVerificationWhenDisabled(t *testing.T) {
	cfg := config.Workload{
		StateSize: 32,
		Rounds:    64,
		MaxStep:   4,
		Seed:      1,
		Verify:    false,
	}
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Verified {
		t.Fatalf("expected Verified to stay false when verification is skipped")
	}
	if res.VerifyTime != 0 {
		t.Fatalf("expected zero verify time when skipped")
	}
}

func TestDeterministicSeedReproducesSameStats(t *testing.T) {
	cfg := config.Workload{StateSize: 32, Rounds: 128, MaxStep: 4, Seed: 42, Verify: false}
	a, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.Stats != b.Stats {
		t.Fatalf("expected identical stats for identical seed, got %+v vs %+v", a.Stats, b.Stats)
	}
}
