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

package arbitration

import (
	"github.com/algorand/go-arbiter/crypto"
)

// Phase is a proposal's position in the decision workflow:
//
//	Created ---(first prediction)---> AwaitingDecision
//	AwaitingDecision ---(decision computed)---> Decided
//	Decided ---(outcome recorded, exactly once)---> Recorded    [terminal]
//
// Storage holds only the decided flag and the outcome hash; the phase is
// always derived from those two fields plus the prediction tally, never
// stored, so it cannot drift from the state that defines it.
type Phase int

const (
	// Created means the proposal is open for predictions and none have
	// arrived yet.
	Created Phase = iota

	// AwaitingDecision means the proposal is open for predictions and at
	// least one has been recorded.
	AwaitingDecision

	// Decided means the decision has been computed and the outcome hash
	// is still unset.
	Decided

	// Recorded means the outcome hash is set. The phase is terminal.
	Recorded
)

// DerivePhase computes the phase of a proposal from its decided flag, its
// outcome hash, and the number of distinct agents that predicted on it.
// This is the only place the derivation rule lives.
func DerivePhase(decided bool, outcomeHash crypto.Digest, predictors uint64) Phase {
	switch {
	case !outcomeHash.IsZero():
		return Recorded
	case decided:
		return Decided
	case predictors > 0:
		return AwaitingDecision
	default:
		return Created
	}
}

func (p Phase) String() string {
	switch p {
	case Created:
		return "created"
	case AwaitingDecision:
		return "awaiting-decision"
	case Decided:
		return "decided"
	case Recorded:
		return "recorded"
	default:
		return "unknown"
	}
}
