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

package nodecontrol

import (
	"fmt"
)

// NodeNotRunningError is returned when an operation expects a running node
// but the node's data directory carries no live process.
type NodeNotRunningError struct {
	dataDir string
}

func (e *NodeNotRunningError) Error() string {
	return fmt.Sprintf("no running node in directory '%s'", e.dataDir)
}

// NodeAlreadyStoppedError is returned by StopArbiterd when the node is not
// running in the first place.
type NodeAlreadyStoppedError struct {
	dataDir string
}

func (e *NodeAlreadyStoppedError) Error() string {
	return fmt.Sprintf("node in directory '%s' is already stopped", e.dataDir)
}

// InvalidDataDirError is returned when the controller's data directory does
// not point at a directory.
type InvalidDataDirError struct {
	dataDir string
}

func (e *InvalidDataDirError) Error() string {
	return fmt.Sprintf("invalid data directory '%s'", e.dataDir)
}

type errArbiterdExitedEarly struct {
	innerError error
}

func (e *errArbiterdExitedEarly) Error() string {
	if e.innerError == nil {
		return "node exited before we could contact it"
	}
	return fmt.Sprintf("node exited with an error code, check node.log for more details : %v", e.innerError)
}

func (e *errArbiterdExitedEarly) Unwrap() error {
	return e.innerError
}
