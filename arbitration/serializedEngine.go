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
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/util/timers"
)

// SerializedArbitrationEngine provides a wrapper around ArbitrationEngine
// and guarantees that all calls to ArbitrationEngine are serialized, which
// preserves the duplicate-vote and single-decision invariants under
// concurrent callers. Reads share the lock; mutations hold it exclusively.
type SerializedArbitrationEngine struct {
	*ArbitrationEngine
	mu deadlock.RWMutex
}

// MakeSerializedEngine initializes a SerializedArbitrationEngine.
func MakeSerializedEngine(registry *AgentRegistry, proposals *ProposalStore, sink EventSink, params config.ArbitrationParams, decisionWindow time.Duration, clock timers.WallClock) *SerializedArbitrationEngine {
	return &SerializedArbitrationEngine{
		ArbitrationEngine: MakeArbitrationEngine(registry, proposals, sink, params, decisionWindow, clock),
	}
}

// RegisterAgent provides a wrapper for ArbitrationEngine's RegisterAgent
func (se *SerializedArbitrationEngine) RegisterAgent(identity crypto.Digest, label string, initialReputation basics.Reputation) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.RegisterAgent(identity, label, initialReputation)
}

// AdjustReputation provides a wrapper for ArbitrationEngine's AdjustReputation
func (se *SerializedArbitrationEngine) AdjustReputation(identity crypto.Digest, delta int64) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.AdjustReputation(identity, delta)
}

// SubmitProposal provides a wrapper for ArbitrationEngine's SubmitProposal
func (se *SerializedArbitrationEngine) SubmitProposal(caller crypto.Digest, configPayload []byte, predictedValue int64) (basics.ProposalIndex, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.SubmitProposal(caller, configPayload, predictedValue)
}

// SubmitPrediction provides a wrapper for ArbitrationEngine's SubmitPrediction
func (se *SerializedArbitrationEngine) SubmitPrediction(caller crypto.Digest, idx basics.ProposalIndex, support bool) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.SubmitPrediction(caller, idx, support)
}

// EvaluateDecision provides a wrapper for ArbitrationEngine's EvaluateDecision
func (se *SerializedArbitrationEngine) EvaluateDecision(idx basics.ProposalIndex) (bool, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.EvaluateDecision(idx)
}

// RecordOutcome provides a wrapper for ArbitrationEngine's RecordOutcome
func (se *SerializedArbitrationEngine) RecordOutcome(idx basics.ProposalIndex, hash crypto.Digest) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.RecordOutcome(idx, hash)
}

// Apply provides a wrapper for ArbitrationEngine's Apply
func (se *SerializedArbitrationEngine) Apply(ev Event) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	return se.ArbitrationEngine.Apply(ev)
}

// RegisteredAgentCount provides a wrapper for ArbitrationEngine's RegisteredAgentCount
func (se *SerializedArbitrationEngine) RegisteredAgentCount() uint64 {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.RegisteredAgentCount()
}

// IsRegistered provides a wrapper for ArbitrationEngine's IsRegistered
func (se *SerializedArbitrationEngine) IsRegistered(identity crypto.Digest) bool {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.IsRegistered(identity)
}

// ReputationOf provides a wrapper for ArbitrationEngine's ReputationOf
func (se *SerializedArbitrationEngine) ReputationOf(identity crypto.Digest) basics.Reputation {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.ReputationOf(identity)
}

// LookupAgent provides a wrapper for ArbitrationEngine's LookupAgent
func (se *SerializedArbitrationEngine) LookupAgent(identity crypto.Digest) (Agent, bool) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.LookupAgent(identity)
}

// Agents provides a wrapper for ArbitrationEngine's Agents
func (se *SerializedArbitrationEngine) Agents() []Agent {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.Agents()
}

// NumProposals provides a wrapper for ArbitrationEngine's NumProposals
func (se *SerializedArbitrationEngine) NumProposals() uint64 {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.NumProposals()
}

// LookupProposal provides a wrapper for ArbitrationEngine's LookupProposal
func (se *SerializedArbitrationEngine) LookupProposal(idx basics.ProposalIndex) (Proposal, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.LookupProposal(idx)
}

// ProposalRecords provides a wrapper for ArbitrationEngine's ProposalRecords
func (se *SerializedArbitrationEngine) ProposalRecords() []Proposal {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.ProposalRecords()
}

// PredictorCount provides a wrapper for ArbitrationEngine's PredictorCount
func (se *SerializedArbitrationEngine) PredictorCount(idx basics.ProposalIndex) uint64 {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.PredictorCount(idx)
}

// Predictions provides a wrapper for ArbitrationEngine's Predictions
func (se *SerializedArbitrationEngine) Predictions(idx basics.ProposalIndex) []Prediction {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.Predictions(idx)
}

// ProposalPhase provides a wrapper for ArbitrationEngine's ProposalPhase
func (se *SerializedArbitrationEngine) ProposalPhase(idx basics.ProposalIndex) (Phase, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	return se.ArbitrationEngine.ProposalPhase(idx)
}
