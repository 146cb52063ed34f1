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

//go:build linux || darwin

// Package sysinfo reports process resource usage for the workload's final
// report.
package sysinfo

import "golang.org/x/sys/unix"

// PeakRSSBytes returns the process's peak resident set size, in bytes.
// On Linux, Getrusage reports Maxrss in kilobytes; on Darwin, in bytes.
func PeakRSSBytes() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	return rssScale * uint64(ru.Maxrss), nil
}
