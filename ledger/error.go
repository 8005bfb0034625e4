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

package ledger

import (
	"fmt"
)

// ErrNoEntry is used to indicate that a journal entry is not present.
type ErrNoEntry struct {
	Seq uint64
}

// Error satisfies builtin interface `error`
func (err ErrNoEntry) Error() string {
	return fmt.Sprintf("journal does not have entry %d", err.Seq)
}

// ChainBrokenError is returned by VerifyChain when the journal's hash chain
// does not check out at some entry.
type ChainBrokenError struct {
	Seq    uint64
	Reason string
}

// Error satisfies builtin interface `error`
func (err ChainBrokenError) Error() string {
	return fmt.Sprintf("journal chain broken at entry %d: %s", err.Seq, err.Reason)
}

// Is implements the errors.Is interface
func (err ChainBrokenError) Is(target error) bool {
	_, ok := target.(ChainBrokenError)
	return ok
}
