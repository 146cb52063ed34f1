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

// Package config loads the reference workload's parameters from a TOML
// file, the way node configuration is loaded elsewhere in this codebase.
package config

import (
	"os"

	"github.com/naoina/toml"
)

// Workload holds the tunables for the reference workload: a vector of a
// given size, mutated for a number of rounds with bounded per-round step
// size, driven by a seeded PRNG so runs are reproducible.
type Workload struct {
	StateSize uint32 `toml:"state_size"`
	Rounds    uint32 `toml:"rounds"`
	MaxStep   uint32 `toml:"max_step"`
	Seed      int64  `toml:"seed"`
	Verify    bool   `toml:"verify"`
}

// Defaults returns the workload configuration used when no file is given:
// R=2^20 rounds, S=2^16 state size, U=8 (each round draws 0..U-1 updates), seed 0 - the
// reference workload's own parameters, so a zero-flag run reproduces the
// shipped smoke test and is directly comparable to the original program.
func Defaults() Workload {
	return Workload{
		StateSize: 1 << 16,
		Rounds:    1 << 20,
		MaxStep:   8,
		Seed:      0,
		Verify:    true,
	}
}

// Load reads a TOML file at path into a Workload seeded with Defaults, so a
// config only needs to specify the fields it overrides.
func Load(path string) (Workload, error) {
	cfg := Defaults()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
