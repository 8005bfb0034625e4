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

package basics

// ProposalIndex is the dense, zero-based index of a proposal, assigned in
// submission order.
type ProposalIndex uint64

// Reputation is an agent's standing score, in points.
type Reputation uint64

// AddSaturate returns r+delta, saturating at the maximum representable value
// rather than wrapping.
func (r Reputation) AddSaturate(delta uint64) Reputation {
	return Reputation(AddSaturate(uint64(r), delta))
}

// SubFloor subtracts delta from r. If the subtraction would underflow below
// zero, the result is floor. A subtraction that stays non-negative is kept
// as-is, even when it lands below floor.
func (r Reputation) SubFloor(delta uint64, floor Reputation) Reputation {
	res, underflowed := OSub(uint64(r), delta)
	if underflowed {
		return floor
	}
	return Reputation(res)
}

// ApplyDelta applies a signed reputation adjustment: non-negative deltas add
// with saturation, negative deltas subtract with the underflow floor rule.
func (r Reputation) ApplyDelta(delta int64, floor Reputation) Reputation {
	if delta >= 0 {
		return r.AddSaturate(uint64(delta))
	}
	// uint64(-delta) is the correct magnitude even for MinInt64
	return r.SubFloor(uint64(-delta), floor)
}
