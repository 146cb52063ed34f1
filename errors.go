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

import "errors"

var (
	// ErrPreconditionViolated is returned when a Diff's expected value
	// disagrees with the state it is applied against, or when Union sees
	// two entries for the same key whose old/new values don't chain.
	ErrPreconditionViolated = errors.New("vlog: precondition violated")

	// ErrIndexOutOfRange is returned by Recover when asked for a version
	// beyond the current head.
	ErrIndexOutOfRange = errors.New("vlog: index out of range")
)
