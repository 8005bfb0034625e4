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

// Package arbitration implements a four-phase decision protocol among
// mutually distrusting agents: a registered agent proposes a configuration
// change with a predicted outcome, other agents cast support/oppose
// predictions, a decision is computed by strict majority, and the hash of
// the real-world outcome is recorded afterwards for audit.
//
// The ArbitrationEngine enforces the phase state machine; the AgentRegistry
// and ProposalStore it drives are plain storage. Every successful mutation
// emits exactly one Event into the engine's sink, and applying those events
// in order to fresh stores rebuilds the exact same state.
package arbitration

import (
	"fmt"
	"time"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/util/timers"
)

// An EventSink receives the audit events the engine emits. Appending is part
// of the mutating operation: when the sink fails, the operation fails and no
// state changes.
type EventSink interface {
	AppendEvent(ev Event) error
}

// ArbitrationEngine drives proposals through the decision workflow. It holds
// no records of its own beyond orchestration state: it validates caller
// authorization and phase preconditions against the registry and store it
// was given, appends one event per successful operation, and applies that
// event to the stores.
//
// The engine is not safe for concurrent use; wrap it in a
// SerializedArbitrationEngine when callers race.
type ArbitrationEngine struct {
	registry  *AgentRegistry
	proposals *ProposalStore
	sink      EventSink

	params config.ArbitrationParams

	// decisionWindow is how long a proposal accepts predictions once the
	// engine observes it. The value is carried regardless, but it is only
	// compared against the clock when params.EnforceDecisionDeadline is
	// set; with the flag off there is no deadline behavior at all.
	decisionWindow time.Duration
	clock          timers.WallClock
	deadlines      map[basics.ProposalIndex]timers.DeadlineMonitor
}

// MakeArbitrationEngine assembles an engine around the given stores and
// sink. A nil clock disables deadline tracking even when the params flag is
// set; tests inject a controllable clock.
func MakeArbitrationEngine(registry *AgentRegistry, proposals *ProposalStore, sink EventSink, params config.ArbitrationParams, decisionWindow time.Duration, clock timers.WallClock) *ArbitrationEngine {
	return &ArbitrationEngine{
		registry:       registry,
		proposals:      proposals,
		sink:           sink,
		params:         params,
		decisionWindow: decisionWindow,
		clock:          clock,
		deadlines:      make(map[basics.ProposalIndex]timers.DeadlineMonitor),
	}
}

// RegisterAgent admits identity to the roster with the given label and
// starting reputation.
func (e *ArbitrationEngine) RegisterAgent(identity crypto.Digest, label string, initialReputation basics.Reputation) error {
	if e.registry.IsRegistered(identity) {
		return AlreadyRegisteredError{Identity: identity}
	}
	return e.commit(AgentRegistered{
		Identity:   identity,
		Label:      label,
		Reputation: initialReputation,
	})
}

// AdjustReputation applies a signed delta to identity's score. A
// non-negative delta saturates instead of wrapping. A penalty larger than
// the current score resets the score to the params' reputation floor rather
// than clamping at zero: one oversized penalty cannot drive an agent to
// ruin. The emitted event carries the resulting score.
func (e *ArbitrationEngine) AdjustReputation(identity crypto.Digest, delta int64) error {
	agent, ok := e.registry.LookupAgent(identity)
	if !ok {
		return NotRegisteredError{Identity: identity}
	}
	updated := agent.Reputation.ApplyDelta(delta, basics.Reputation(e.params.ReputationFloor))
	return e.commit(ReputationUpdated{
		Identity:   identity,
		Reputation: updated,
	})
}

// SubmitProposal records a configuration-change proposal from caller and
// returns its newly assigned index. Any registered agent may submit any
// number of proposals; there is no quorum, fee, or rate limit at this
// layer.
func (e *ArbitrationEngine) SubmitProposal(caller crypto.Digest, configPayload []byte, predictedValue int64) (basics.ProposalIndex, error) {
	if !e.registry.IsRegistered(caller) {
		return 0, NotRegisteredError{Identity: caller}
	}
	idx := basics.ProposalIndex(e.proposals.NumProposals())
	err := e.commit(ProposalCreated{
		Index:          idx,
		Proposer:       caller,
		Config:         configPayload,
		PredictedValue: predictedValue,
		Timestamp:      time.Now().Unix(),
	})
	if err != nil {
		return 0, err
	}
	return idx, nil
}

// SubmitPrediction records caller's support/oppose vote on proposal idx.
//
// The precondition order is part of the interface: an unregistered caller
// sees NotRegisteredError even when the index is also bad, and a closed
// window reports WindowClosedError before any duplicate-vote check. A
// proposer predicting on its own proposal is allowed.
func (e *ArbitrationEngine) SubmitPrediction(caller crypto.Digest, idx basics.ProposalIndex, support bool) error {
	if !e.registry.IsRegistered(caller) {
		return NotRegisteredError{Identity: caller}
	}
	prop, err := e.proposals.Lookup(idx)
	if err != nil {
		return err
	}
	if prop.Decided {
		return WindowClosedError{Index: idx}
	}
	if mon, ok := e.deadlines[idx]; ok && mon.Expired() {
		return WindowClosedError{Index: idx}
	}
	if e.proposals.HasPredicted(idx, caller) {
		return AlreadySubmittedError{Index: idx, Agent: caller}
	}
	return e.commit(PredictionSubmitted{
		Index:   idx,
		Agent:   caller,
		Support: support,
	})
}

// EvaluateDecision computes the decision for proposal idx from its tallies:
// approved iff the support count strictly exceeds the oppose count, so a
// tie rejects. Evaluation is permissionless and one-shot by guard; a second
// call fails rather than silently repeating the answer.
func (e *ArbitrationEngine) EvaluateDecision(idx basics.ProposalIndex) (bool, error) {
	prop, err := e.proposals.Lookup(idx)
	if err != nil {
		return false, err
	}
	if prop.Decided {
		return false, AlreadyDecidedError{Index: idx}
	}
	if have := e.proposals.PredictorCount(idx); have < e.params.MinPredictionQuorum {
		return false, InsufficientPredictionsError{Index: idx, Have: have, Quorum: e.params.MinPredictionQuorum}
	}
	approved := prop.SupportCount > prop.OpposeCount
	err = e.commit(DecisionExecuted{
		Index:        idx,
		Approved:     approved,
		SupportCount: prop.SupportCount,
		OpposeCount:  prop.OpposeCount,
	})
	if err != nil {
		return false, err
	}
	return approved, nil
}

// RecordOutcome attaches the outcome fingerprint to a decided proposal. The
// hash is an attestation slot: the engine stores it verbatim and never
// checks that it corresponds to any real-world event; trust in its content
// is external to this layer. Recording is permissionless and write-once.
func (e *ArbitrationEngine) RecordOutcome(idx basics.ProposalIndex, hash crypto.Digest) error {
	prop, err := e.proposals.Lookup(idx)
	if err != nil {
		return err
	}
	if !prop.Decided {
		return DecisionPendingError{Index: idx}
	}
	if !prop.OutcomeHash.IsZero() {
		return AlreadyRecordedError{Index: idx}
	}
	if hash.IsZero() {
		return ZeroOutcomeError{Index: idx}
	}
	return e.commit(OutcomeRecorded{
		Index: idx,
		Hash:  hash,
	})
}

// commit appends ev to the audit sink and then applies it to the stores.
// Preconditions have already been checked, so the apply cannot legitimately
// fail; a sink failure aborts the operation before any state changes.
func (e *ArbitrationEngine) commit(ev Event) error {
	if err := e.sink.AppendEvent(ev); err != nil {
		return err
	}
	return e.apply(ev)
}

// Apply mutates the stores according to ev without checking workflow
// preconditions and without emitting anything. Journal replay feeds
// recorded events back through Apply to rebuild state; the engine's own
// operations funnel through the same path, so a replayed journal rebuilds
// exactly the state the original operations produced.
func (e *ArbitrationEngine) Apply(ev Event) error {
	return e.apply(ev)
}

func (e *ArbitrationEngine) apply(ev Event) error {
	switch ev := ev.(type) {
	case AgentRegistered:
		return e.registry.Register(ev.Identity, ev.Label, ev.Reputation)
	case ReputationUpdated:
		return e.registry.SetReputation(ev.Identity, ev.Reputation)
	case ProposalCreated:
		idx := e.proposals.Create(ev.Proposer, ev.Config, ev.PredictedValue, ev.Timestamp)
		if idx != ev.Index {
			return fmt.Errorf("arbitration: created proposal %d, event names %d", idx, ev.Index)
		}
		e.armDeadline(idx)
		return nil
	case PredictionSubmitted:
		return e.proposals.RecordPrediction(ev.Index, ev.Agent, ev.Support)
	case DecisionExecuted:
		return e.proposals.MarkDecided(ev.Index, ev.Approved)
	case OutcomeRecorded:
		return e.proposals.SetOutcome(ev.Index, ev.Hash)
	default:
		return fmt.Errorf("arbitration: cannot apply event type %T", ev)
	}
}

// armDeadline starts the prediction window for a newly created proposal. The
// window is measured on the engine's clock from the moment the engine first
// observes the proposal, which on replay is the replay itself.
func (e *ArbitrationEngine) armDeadline(idx basics.ProposalIndex) {
	if !e.params.EnforceDecisionDeadline || e.decisionWindow <= 0 || e.clock == nil {
		return
	}
	e.deadlines[idx] = e.clock.DeadlineMonitorAt(e.clock.Since() + e.decisionWindow)
}

// Params returns the protocol rule set the engine runs under.
func (e *ArbitrationEngine) Params() config.ArbitrationParams {
	return e.params
}

// RegisteredAgentCount returns the number of agents on the roster.
func (e *ArbitrationEngine) RegisteredAgentCount() uint64 {
	return e.registry.AgentCount()
}

// IsRegistered reports whether identity is on the roster.
func (e *ArbitrationEngine) IsRegistered(identity crypto.Digest) bool {
	return e.registry.IsRegistered(identity)
}

// ReputationOf returns identity's current reputation, zero if unregistered.
func (e *ArbitrationEngine) ReputationOf(identity crypto.Digest) basics.Reputation {
	return e.registry.ReputationOf(identity)
}

// LookupAgent returns identity's registry record.
func (e *ArbitrationEngine) LookupAgent(identity crypto.Digest) (Agent, bool) {
	return e.registry.LookupAgent(identity)
}

// Agents returns the registered agents in registration order.
func (e *ArbitrationEngine) Agents() []Agent {
	return e.registry.Agents()
}

// NumProposals returns how many proposals have ever been submitted.
func (e *ArbitrationEngine) NumProposals() uint64 {
	return e.proposals.NumProposals()
}

// LookupProposal returns the record stored under idx.
func (e *ArbitrationEngine) LookupProposal(idx basics.ProposalIndex) (Proposal, error) {
	return e.proposals.Lookup(idx)
}

// ProposalRecords returns all proposals in index order.
func (e *ArbitrationEngine) ProposalRecords() []Proposal {
	return e.proposals.ProposalRecords()
}

// PredictorCount returns the number of distinct agents that voted on idx.
func (e *ArbitrationEngine) PredictorCount(idx basics.ProposalIndex) uint64 {
	return e.proposals.PredictorCount(idx)
}

// Predictions returns idx's recorded votes ordered by agent identity.
func (e *ArbitrationEngine) Predictions(idx basics.ProposalIndex) []Prediction {
	return e.proposals.Predictions(idx)
}

// ProposalPhase returns the derived phase of proposal idx.
func (e *ArbitrationEngine) ProposalPhase(idx basics.ProposalIndex) (Phase, error) {
	prop, err := e.proposals.Lookup(idx)
	if err != nil {
		return Created, err
	}
	return prop.Phase(e.proposals.PredictorCount(idx)), nil
}
