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
	"sort"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
)

// ProposalStore owns the Proposal and Prediction records. Indexes are dense
// and zero-based: proposal n is the n'th ever created, so the records live
// in a slice and the index doubles as the position.
//
// The store validates record-level integrity only (known indexes, one vote
// per agent); phase legality lives entirely in the engine. MarkDecided and
// SetOutcome are blind mutators the engine calls under its own precondition
// checks.
type ProposalStore struct {
	proposals []Proposal

	// votes[i] holds proposal i's predictions: presence means the agent
	// voted, the value is the support flag.
	votes []map[crypto.Digest]bool
}

// MakeProposalStore creates an empty store.
func MakeProposalStore() *ProposalStore {
	return &ProposalStore{}
}

// NumProposals returns how many proposals have ever been created.
func (ps *ProposalStore) NumProposals() uint64 {
	return uint64(len(ps.proposals))
}

// Create allocates the next index and stores a new undecided, unrecorded
// proposal under it. Duplicate payloads are permitted. The payload is copied:
// the stored record must keep the bytes as submitted even when the caller
// reuses its buffer.
func (ps *ProposalStore) Create(proposer crypto.Digest, config []byte, predictedValue int64, timestamp int64) basics.ProposalIndex {
	idx := basics.ProposalIndex(len(ps.proposals))
	ps.proposals = append(ps.proposals, Proposal{
		Index:          idx,
		Proposer:       proposer,
		Config:         append([]byte(nil), config...),
		PredictedValue: predictedValue,
		Timestamp:      timestamp,
	})
	ps.votes = append(ps.votes, make(map[crypto.Digest]bool))
	return idx
}

// Lookup returns the proposal record stored under idx.
func (ps *ProposalStore) Lookup(idx basics.ProposalIndex) (Proposal, error) {
	if uint64(idx) >= ps.NumProposals() {
		return Proposal{}, InvalidProposalError{Index: idx, Count: ps.NumProposals()}
	}
	return ps.proposals[idx], nil
}

// RecordPrediction stores agent's vote on proposal idx and bumps the
// matching tally. Each agent votes at most once per proposal; the first
// vote wins and later ones fail.
func (ps *ProposalStore) RecordPrediction(idx basics.ProposalIndex, agent crypto.Digest, support bool) error {
	if uint64(idx) >= ps.NumProposals() {
		return InvalidProposalError{Index: idx, Count: ps.NumProposals()}
	}
	if _, voted := ps.votes[idx][agent]; voted {
		return AlreadySubmittedError{Index: idx, Agent: agent}
	}
	ps.votes[idx][agent] = support
	if support {
		ps.proposals[idx].SupportCount++
	} else {
		ps.proposals[idx].OpposeCount++
	}
	return nil
}

// HasPredicted reports whether agent already voted on proposal idx.
func (ps *ProposalStore) HasPredicted(idx basics.ProposalIndex, agent crypto.Digest) bool {
	if uint64(idx) >= ps.NumProposals() {
		return false
	}
	_, voted := ps.votes[idx][agent]
	return voted
}

// PredictorCount returns the number of distinct agents that voted on
// proposal idx.
func (ps *ProposalStore) PredictorCount(idx basics.ProposalIndex) uint64 {
	if uint64(idx) >= ps.NumProposals() {
		return 0
	}
	return uint64(len(ps.votes[idx]))
}

// Predictions returns proposal idx's recorded votes ordered by agent
// identity, for enumeration surfaces.
func (ps *ProposalStore) Predictions(idx basics.ProposalIndex) []Prediction {
	if uint64(idx) >= ps.NumProposals() {
		return nil
	}
	out := make([]Prediction, 0, len(ps.votes[idx]))
	for agent, support := range ps.votes[idx] {
		out = append(out, Prediction{Proposal: idx, Agent: agent, Support: support})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Agent.String() < out[j].Agent.String()
	})
	return out
}

// MarkDecided sets proposal idx's decided flag and decision. The engine has
// already checked the phase; the store does not re-validate it.
func (ps *ProposalStore) MarkDecided(idx basics.ProposalIndex, approved bool) error {
	if uint64(idx) >= ps.NumProposals() {
		return InvalidProposalError{Index: idx, Count: ps.NumProposals()}
	}
	ps.proposals[idx].Decided = true
	ps.proposals[idx].Approved = approved
	return nil
}

// SetOutcome stores proposal idx's outcome hash verbatim. The engine has
// already checked the phase; the store does not re-validate it.
func (ps *ProposalStore) SetOutcome(idx basics.ProposalIndex, hash crypto.Digest) error {
	if uint64(idx) >= ps.NumProposals() {
		return InvalidProposalError{Index: idx, Count: ps.NumProposals()}
	}
	ps.proposals[idx].OutcomeHash = hash
	return nil
}

// ProposalRecords returns all proposals in index order.
func (ps *ProposalStore) ProposalRecords() []Proposal {
	out := make([]Proposal, len(ps.proposals))
	copy(out, ps.proposals)
	return out
}
