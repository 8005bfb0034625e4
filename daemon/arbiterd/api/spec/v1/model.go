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

// Package v1 defines models exposed by arbiterd rest api
package v1

// NodeStatus contains the information about a node status
// swagger:model NodeStatus
type NodeStatus struct {
	// JournalSequence is the sequence number of the latest journal entry
	//
	// required: true
	JournalSequence uint64 `json:"journalSequence"`

	// JournalDigest is the running chain digest over the journal, in
	// base32. Empty until the first event is journaled.
	//
	// required: true
	JournalDigest string `json:"journalDigest"`

	// RegisteredAgents is how many agents are on the roster
	//
	// required: true
	RegisteredAgents uint64 `json:"registeredAgents"`

	// Proposals is how many proposals have ever been submitted
	//
	// required: true
	Proposals uint64 `json:"proposals"`

	// DecidedProposals is how many proposals have a computed decision
	//
	// required: true
	DecidedProposals uint64 `json:"decidedProposals"`

	// RecordedProposals is how many proposals carry an outcome hash
	//
	// required: true
	RecordedProposals uint64 `json:"recordedProposals"`

	// ParamsVersion names the arbitration parameters the node runs under
	//
	// required: true
	ParamsVersion string `json:"paramsVersion"`

	// TimeSinceLastMutation is in nanoseconds
	//
	// required: true
	TimeSinceLastMutation int64 `json:"timeSinceLastMutation"`

	// HasMutatedSinceStartup reports whether any operation was accepted
	// since the node process started, as opposed to replayed at boot
	//
	// required: true
	HasMutatedSinceStartup bool `json:"hasMutatedSinceStartup"`
}

// Agent contains the data associated with a registered agent
// swagger:model Agent
type Agent struct {
	// Identity is the agent's public identity digest, in base32
	//
	// required: true
	Identity string `json:"identity"`

	// Label is the agent's human-readable name. It plays no part in any
	// decision rule.
	Label string `json:"label,omitempty"`

	// Reputation is the agent's current score
	//
	// required: true
	Reputation uint64 `json:"reputation"`
}

// AgentList contains a list of registered agents
// swagger:model AgentList
type AgentList struct {
	// required: true
	Agents []Agent `json:"agents"`
}

// Proposal is the public record of one submitted configuration change
// swagger:model Proposal
type Proposal struct {
	// Index is the proposal's dense, zero-based sequence number
	//
	// required: true
	Index uint64 `json:"index"`

	// Proposer is the identity digest of the submitting agent, in base32
	//
	// required: true
	Proposer string `json:"proposer"`

	// Config is the proposed configuration payload
	//
	// required: true
	// swagger:strfmt byte
	Config []byte `json:"config"`

	// PredictedValue is the proposer's own prediction of the outcome
	PredictedValue int64 `json:"predictedValue"`

	// Timestamp is the creation time in seconds since the epoch
	Timestamp int64 `json:"timestamp"`

	// Decided reports whether the decision has been computed
	//
	// required: true
	Decided bool `json:"decided"`

	// Approved is the computed decision. Meaningless until Decided.
	Approved bool `json:"approved"`

	// SupportCount is the number of distinct supporting predictions
	SupportCount uint64 `json:"supportCount"`

	// OpposeCount is the number of distinct opposing predictions
	OpposeCount uint64 `json:"opposeCount"`

	// OutcomeHash is the recorded outcome fingerprint in base32, or empty
	// while the proposal is unrecorded
	OutcomeHash string `json:"outcomeHash,omitempty"`

	// Phase is the derived lifecycle phase: created, awaiting-decision,
	// decided or recorded
	//
	// required: true
	Phase string `json:"phase"`
}

// ProposalList contains a list of proposals
// swagger:model ProposalList
type ProposalList struct {
	// required: true
	Proposals []Proposal `json:"proposals"`
}

// ProposalID is a response to a successful proposal submission
// swagger:model ProposalID
type ProposalID struct {
	// required: true
	Index uint64 `json:"index"`
}

// Prediction is one agent's support/oppose vote on one proposal
// swagger:model Prediction
type Prediction struct {
	// required: true
	Proposal uint64 `json:"proposal"`

	// required: true
	Agent string `json:"agent"`

	// required: true
	Support bool `json:"support"`
}

// PredictionList contains the predictions recorded for one proposal
// swagger:model PredictionList
type PredictionList struct {
	// required: true
	Proposal uint64 `json:"proposal"`

	// required: true
	Predictions []Prediction `json:"predictions"`
}

// Decision is the computed decision for one proposal
// swagger:model Decision
type Decision struct {
	// required: true
	Proposal uint64 `json:"proposal"`

	// required: true
	Approved bool `json:"approved"`

	// required: true
	SupportCount uint64 `json:"supportCount"`

	// required: true
	OpposeCount uint64 `json:"opposeCount"`
}

// OutcomeReceipt acknowledges a recorded outcome hash
// swagger:model OutcomeReceipt
type OutcomeReceipt struct {
	// required: true
	Proposal uint64 `json:"proposal"`

	// required: true
	OutcomeHash string `json:"outcomeHash"`
}

// JournalHead describes the latest entry of the node's journal
// swagger:model JournalHead
type JournalHead struct {
	// required: true
	Sequence uint64 `json:"sequence"`

	// required: true
	Digest string `json:"digest"`

	// Empty is true when nothing has been journaled yet, in which case
	// Sequence and Digest are meaningless
	Empty bool `json:"empty,omitempty"`
}

// JournalVerification is the result of replaying the journal's hash chain
// swagger:model JournalVerification
type JournalVerification struct {
	// required: true
	Ok bool `json:"ok"`

	// required: true
	Sequence uint64 `json:"sequence"`

	// required: true
	Digest string `json:"digest"`
}

// SnapshotReceipt describes a snapshot written on request
// swagger:model SnapshotReceipt
type SnapshotReceipt struct {
	// required: true
	Path string `json:"path"`

	// required: true
	Sequence uint64 `json:"sequence"`
}

// RegisterAgentRequest is the body of a registration submission
// swagger:model RegisterAgentRequest
type RegisterAgentRequest struct {
	// Identity is the agent's public identity digest, in base32
	//
	// required: true
	Identity string `json:"identity"`

	// Label is an optional human-readable name
	Label string `json:"label,omitempty"`

	// InitialReputation is the starting score; 0 selects the configured
	// default
	InitialReputation uint64 `json:"initialReputation,omitempty"`
}

// AdjustReputationRequest is the body of a reputation adjustment
// swagger:model AdjustReputationRequest
type AdjustReputationRequest struct {
	// Delta is the signed adjustment to apply
	//
	// required: true
	Delta int64 `json:"delta"`
}

// SubmitProposalRequest is the body of an unsigned proposal submission
// swagger:model SubmitProposalRequest
type SubmitProposalRequest struct {
	// Proposer is the identity digest of the submitting agent, in base32
	//
	// required: true
	Proposer string `json:"proposer"`

	// Config is the proposed configuration payload
	//
	// required: true
	// swagger:strfmt byte
	Config []byte `json:"config"`

	// PredictedValue is the proposer's own prediction of the outcome
	PredictedValue int64 `json:"predictedValue,omitempty"`
}

// SubmitPredictionRequest is the body of an unsigned prediction submission
// swagger:model SubmitPredictionRequest
type SubmitPredictionRequest struct {
	// Agent is the identity digest of the predicting agent, in base32
	//
	// required: true
	Agent string `json:"agent"`

	// Support is true for a support vote, false for an oppose vote
	//
	// required: true
	Support bool `json:"support"`
}

// RecordOutcomeRequest is the body of an unsigned outcome attestation
// swagger:model RecordOutcomeRequest
type RecordOutcomeRequest struct {
	// OutcomeHash is the outcome fingerprint, in base32. It must not be
	// the zero digest.
	//
	// required: true
	OutcomeHash string `json:"outcomeHash"`
}
