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

package log

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ConsoleHandler returns a StreamHandler writing to os.Stderr at maxLvl,
// wrapping the stream with go-colorable so ANSI codes from TerminalFormat
// render correctly on Windows consoles, and disabling color entirely when
// the destination isn't a real terminal (piped to a file, captured by CI).
func ConsoleHandler(maxLvl Lvl) Handler {
	var w = os.Stderr
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return LvlFilterHandler(maxLvl, StreamHandler(colorable.NewColorable(w), TerminalFormat()))
	}
	color.NoColor = true
	return LvlFilterHandler(maxLvl, StreamHandler(colorable.NewNonColorable(w), TerminalFormat()))
}
