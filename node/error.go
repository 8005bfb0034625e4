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

package node

import (
	"fmt"

	"github.com/algorand/go-arbiter/protocol"
)

// LabelTooLongError indicates that an agent label exceeded the running
// params' MaxLabelBytes. The check runs at the node boundary, before the
// engine sees the submission.
type LabelTooLongError struct {
	Length int
	Max    int
}

// Error satisfies builtin interface `error`
func (err LabelTooLongError) Error() string {
	return fmt.Sprintf("agent label is %d bytes, limit is %d", err.Length, err.Max)
}

// PayloadTooLargeError indicates that a proposal's configuration payload
// exceeded the running params' MaxConfigPayloadBytes.
type PayloadTooLargeError struct {
	Length int
	Max    int
}

// Error satisfies builtin interface `error`
func (err PayloadTooLargeError) Error() string {
	return fmt.Sprintf("proposal payload is %d bytes, limit is %d", err.Length, err.Max)
}

// UnknownParamsVersionError indicates that the node was asked to run a
// params version it does not know.
type UnknownParamsVersionError struct {
	Version protocol.ParamsVersion
}

// Error satisfies builtin interface `error`
func (err UnknownParamsVersionError) Error() string {
	return fmt.Sprintf("unsupported params version %s", err.Version)
}
