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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.StateSize == 0 || d.Rounds == 0 || d.MaxStep == 0 {
		t.Fatalf("expected nonzero defaults, got %+v", d)
	}
	if !d.Verify {
		t.Fatalf("expected verify to default to true")
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workload.toml")
	const contents = "rounds = 10\nseed = 7\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rounds != 10 {
		t.Fatalf("expected rounds=10, got %d", cfg.Rounds)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected seed=7, got %d", cfg.Seed)
	}
	// Unspecified fields keep their default values.
	if cfg.StateSize != Defaults().StateSize {
		t.Fatalf("expected default state size to survive, got %d", cfg.StateSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
