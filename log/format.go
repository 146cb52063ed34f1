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
	"bytes"
	"fmt"
	"strconv"

	"github.com/fatih/color"
)

// Format renders a Record to bytes.
type Format interface {
	Format(r *Record) []byte
}

type formatFunc func(*Record) []byte

func (f formatFunc) Format(r *Record) []byte { return f(r) }

var lvlColor = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgHiBlack),
}

// TerminalFormat renders records the way an interactive console expects:
// "LVL[time] msg key=value ...", level-colored when the destination
// supports it. Color support is decided by the stream wrapped via
// ColorableWriter, not by this formatter.
func TerminalFormat() Format {
	return formatFunc(func(r *Record) []byte {
		var buf bytes.Buffer
		c := lvlColor[r.Lvl]
		c.Fprintf(&buf, "%-5s", r.Lvl.String())
		fmt.Fprintf(&buf, "[%s] %-40s ", r.Time.Format("01-02|15:04:05.000"), r.Msg)
		for i := 0; i < len(r.Ctx); i += 2 {
			fmt.Fprintf(&buf, "%v=%v ", r.Ctx[i], formatValue(r.Ctx[i+1]))
		}
		fmt.Fprintf(&buf, "(%s)\n", r.Call)
		return buf.Bytes()
	})
}

// LogfmtFormat renders records as key=value pairs, one record per line,
// suitable for log aggregators rather than a terminal.
func LogfmtFormat() Format {
	return formatFunc(func(r *Record) []byte {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "t=%s lvl=%s msg=%s", r.Time.Format("2006-01-02T15:04:05-0700"), r.Lvl, strconv.Quote(r.Msg))
		for i := 0; i < len(r.Ctx); i += 2 {
			fmt.Fprintf(&buf, " %v=%s", r.Ctx[i], strconv.Quote(fmt.Sprint(formatValue(r.Ctx[i+1]))))
		}
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

func formatValue(v interface{}) interface{} {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}
