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

package timers

import (
	"time"
)

// Frozen is a dummy frozen clock that never fires. Since always reports zero,
// so deadlines allocated against it never expire on their own.
type Frozen struct {
	timeoutCh chan time.Time
}

// MakeFrozenClock creates a new frozen clock.
func MakeFrozenClock() WallClock {
	return &Frozen{
		timeoutCh: make(chan time.Time, 1),
	}
}

// Zero returns a new Clock reset to the current time.
func (m *Frozen) Zero() Clock {
	return MakeFrozenClock()
}

// TimeoutAt returns a channel that will signal when the duration has elapsed.
func (m *Frozen) TimeoutAt(delta time.Duration) <-chan time.Time {
	return m.timeoutCh
}

// Since implements WallClock.Since; a frozen clock never advances.
func (m *Frozen) Since() time.Duration {
	return 0
}

// DeadlineMonitorAt returns a DeadlineMonitor that expires at the given
// offset from the clock's zero point.
func (m *Frozen) DeadlineMonitorAt(at time.Duration) DeadlineMonitor {
	return MakeMonotonicDeadlineMonitor(m, at)
}

// Encode implements Clock.Encode.
func (m *Frozen) Encode() []byte {
	return []byte{}
}

// Decode implements Clock.Decode.
func (m *Frozen) Decode([]byte) (Clock, error) {
	return MakeFrozenClock(), nil
}

func (m *Frozen) String() string {
	return ""
}
