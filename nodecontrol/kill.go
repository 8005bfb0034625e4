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

package nodecontrol

import (
	"syscall"
	"time"
)

// killPID sends SIGTERM to the given process and waits for it to exit,
// escalating to SIGKILL if it has not gone away within 30 seconds.
func killPID(pid int) error {
	err := syscall.Kill(pid, syscall.SIGTERM)
	if err != nil {
		return err
	}

	waitLong := time.After(time.Second * 30)
	for {
		// Send null signal - if the process still exists, it'll not return an error
		// When we get an error, the process has exited.
		if err = syscall.Kill(pid, syscall.Signal(0)); err != nil {
			return nil
		}
		select {
		case <-waitLong:
			return syscall.Kill(pid, syscall.SIGKILL)
		case <-time.After(time.Millisecond * 100):
		}
	}
}
