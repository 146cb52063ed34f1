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

// Package log implements a leveled, structured logger in the style used
// throughout this project: every call takes a message plus an alternating
// list of key/value context pairs, and records carry their call site so a
// terminal handler can print "file:line" next to the message.
package log

import (
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
)

// Lvl is a logging level, ordered from most to least severe.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) String() string {
	switch l {
	case LvlCrit:
		return "CRIT"
	case LvlError:
		return "ERRO"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DBUG"
	case LvlTrace:
		return "TRCE"
	default:
		return "UNKN"
	}
}

// Record is a single log event, passed to a Handler.
type Record struct {
	Time time.Time
	Lvl  Lvl
	Msg  string
	Ctx  []interface{}
	Call stack.Call
}

// Logger writes leveled, contextual log records.
type Logger interface {
	New(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	ctx []interface{}
	h   *swapHandler
}

// swapHandler lets the root logger's handler be replaced at runtime (via
// Root().SetHandler) without requiring every derived Logger to be rebuilt.
type swapHandler struct {
	mu sync.RWMutex
	h  Handler
}

func (s *swapHandler) Log(r *Record) error {
	s.mu.RLock()
	h := s.h
	s.mu.RUnlock()
	return h.Log(r)
}

func (s *swapHandler) Swap(h Handler) {
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

func (l *logger) write(msg string, lvl Lvl, ctx []interface{}, skip int) {
	r := &Record{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  msg,
		Ctx:  normalize(append(l.ctx, ctx...)),
		Call: stack.Caller(skip),
	}
	_ = l.h.Log(r)
}

func (l *logger) New(ctx ...interface{}) Logger {
	combined := make([]interface{}, 0, len(l.ctx)+len(ctx))
	combined = append(combined, l.ctx...)
	combined = append(combined, ctx...)
	return &logger{ctx: combined, h: l.h}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx, 2) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx, 2) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx, 2) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx, 2) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx, 2) }
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(msg, LvlCrit, ctx, 2)
	os.Exit(1)
}

// normalize ensures ctx has an even number of elements, padding with a
// "LOGGER_ERROR" marker if a caller passed a dangling key.
func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, nil, "LOGGER_ERROR", "vlog/log: odd number of arguments")
	}
	return ctx
}

var root = &logger{h: new(swapHandler)}

func init() {
	root.h.Swap(ConsoleHandler(LvlInfo))
}

// Root returns the root logger.
func Root() Logger { return root }

// SetHandler replaces the root logger's handler.
func SetHandler(h Handler) { root.h.Swap(h) }

// New returns a new Logger with ctx appended to the root's context.
func New(ctx ...interface{}) Logger { return root.New(ctx...) }

func Trace(msg string, ctx ...interface{}) { root.write(msg, LvlTrace, ctx, 2) }
func Debug(msg string, ctx ...interface{}) { root.write(msg, LvlDebug, ctx, 2) }
func Info(msg string, ctx ...interface{})  { root.write(msg, LvlInfo, ctx, 2) }
func Warn(msg string, ctx ...interface{})  { root.write(msg, LvlWarn, ctx, 2) }
func Error(msg string, ctx ...interface{}) { root.write(msg, LvlError, ctx, 2) }
func Crit(msg string, ctx ...interface{}) {
	root.write(msg, LvlCrit, ctx, 2)
	os.Exit(1)
}
