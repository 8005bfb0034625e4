// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-arbiter
//
// go-arbiter is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-arbiter is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-arbiter.  If not, see <https://www.gnu.org/licenses/>.

//go:build !windows
// +build !windows

package util

import (
	"syscall"
)

/* misc */

// GetFdLimits returns a current values for file descriptors limits.
func GetFdLimits() (soft uint64, hard uint64, err error) {
	var rLimit syscall.Rlimit
	err = syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return 0, 0, err
	}
	return rLimit.Cur, rLimit.Max, nil
}

// RaiseFdSoftLimit increases the file descriptors soft limit to the value
// given, or leaves it alone if the current soft limit is already high enough.
func RaiseFdSoftLimit(newLimit uint64) error {
	soft, hard, err := GetFdLimits()
	if err != nil {
		return err
	}
	if newLimit <= soft {
		return nil
	}
	if newLimit > hard {
		newLimit = hard
	}
	return SetFdSoftLimit(newLimit)
}

// SetFdSoftLimit sets a new file descriptors soft limit.
func SetFdSoftLimit(newLimit uint64) error {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return err
	}

	rLimit.Cur = newLimit
	return syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
}

// Getrusage gets file descriptors usage statistics
func Getrusage(who int, rusage *syscall.Rusage) (err error) {
	err = syscall.Getrusage(who, rusage)
	return
}

// GetCurrentProcessTimes gets current process kernel and usermode times
func GetCurrentProcessTimes() (utime int64, stime int64, err error) {
	var usage syscall.Rusage

	err = syscall.Getrusage(syscall.RUSAGE_SELF, &usage)
	if err == nil {
		utime = usage.Utime.Nano()
		stime = usage.Stime.Nano()
	} else {
		utime = 0
		stime = 0
	}
	return
}
