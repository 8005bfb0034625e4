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
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/protocol"
)

// This file defines the records owned by the arbitration stores and the
// signed envelopes that carry submissions into the engine.
//
// A decision runs through the following messages, in order:
//
// + A ProposalSubmission, placed by a registered agent, carrying an opaque
//   configuration payload and the proposer's predicted outcome value.
//
// + A set of zero or more Predictions, each a registered agent's
//   support/oppose vote on the proposal.
//
// + A decision, computed exactly once from the final tallies.
//
// + An OutcomeAttestation, recording the fingerprint of the real-world
//   outcome after the fact.

// Agent is a registered participant in the decision protocol.
type Agent struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Identity is the agent's ed25519 public key, carried as a digest.
	// It is the unique key the registry tracks the agent under.
	Identity crypto.Digest `codec:"id"`

	// Registered is set when the agent is admitted to the roster and
	// never cleared; agents are not deleted.
	Registered bool `codec:"reg"`

	// Reputation is the agent's current score. It is adjusted by signed
	// deltas with saturating addition and an underflow floor; it never
	// goes negative and never wraps.
	Reputation basics.Reputation `codec:"rep"`

	// Label is a human-readable name for the agent. It plays no part in
	// any decision rule.
	Label string `codec:"lbl"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (a Agent) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.AgentRecord, protocol.Encode(&a)
}

// Proposal is the durable record of one submitted configuration change and
// everything the protocol has learned about it since.
//
// A proposal's phase is never stored. It is derived from Decided and
// OutcomeHash by DerivePhase, so the record cannot disagree with the phase
// it implies.
type Proposal struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Index is the proposal's dense, zero-based sequence number. Indexes
	// are assigned in submission order and never reused.
	Index basics.ProposalIndex `codec:"idx"`

	// Proposer identifies the registered agent that submitted the
	// proposal.
	Proposer crypto.Digest `codec:"prp"`

	// Config is the proposed configuration payload. The engine stores it
	// verbatim and never interprets it; duplicate payloads are permitted.
	Config []byte `codec:"cfg"`

	// PredictedValue is the proposer's own prediction of the outcome, as
	// a signed integer whose semantics are opaque to the engine.
	PredictedValue int64 `codec:"pv"`

	// Timestamp is the creation time of the proposal in seconds since the
	// epoch. It is bookkeeping for the audit trail; no transition rule
	// reads it.
	Timestamp int64 `codec:"ts"`

	// Decided reports whether the decision has been computed. It moves
	// from false to true at most once and never reverts.
	Decided bool `codec:"dec"`

	// Approved is the computed decision: true iff the support tally
	// strictly exceeded the oppose tally. Meaningless until Decided.
	Approved bool `codec:"app"`

	// SupportCount is the number of distinct agents that predicted
	// support.
	SupportCount uint64 `codec:"sup"`

	// OpposeCount is the number of distinct agents that predicted
	// oppose.
	OpposeCount uint64 `codec:"opp"`

	// OutcomeHash is the fingerprint attesting to the real-world outcome.
	// It stays zero until recorded and is write-once thereafter.
	OutcomeHash crypto.Digest `codec:"out"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (p Proposal) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Proposal, protocol.Encode(&p)
}

// Phase returns the proposal's derived phase given the number of distinct
// agents that have predicted on it.
func (p Proposal) Phase(predictors uint64) Phase {
	return DerivePhase(p.Decided, p.OutcomeHash, predictors)
}

// Prediction is one agent's support/oppose vote on one proposal. At most one
// prediction exists per (proposal, agent) pair, and it is immutable once
// recorded.
type Prediction struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Proposal is the index of the proposal voted on.
	Proposal basics.ProposalIndex `codec:"idx"`

	// Agent identifies the registered agent casting the vote.
	Agent crypto.Digest `codec:"agt"`

	// Support is true for a support vote, false for an oppose vote.
	Support bool `codec:"sup"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (p Prediction) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Prediction, protocol.Encode(&p)
}

// ProposalSubmission is the wire form of a proposal before the store has
// assigned it an index.
type ProposalSubmission struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Proposer identifies the submitting agent.
	Proposer crypto.Digest `codec:"prp"`

	// Config is the proposed configuration payload.
	Config []byte `codec:"cfg"`

	// PredictedValue is the proposer's predicted outcome value.
	PredictedValue int64 `codec:"pv"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (ps ProposalSubmission) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.ProposalSubmission, protocol.Encode(&ps)
}

// OutcomeAttestation is the wire form of an outcome-hash recording.
type OutcomeAttestation struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Proposal is the index of the decided proposal the outcome belongs
	// to.
	Proposal basics.ProposalIndex `codec:"idx"`

	// Attestor identifies the agent recording the outcome. Recording is
	// permissionless; the attestor is kept for the audit trail only.
	Attestor crypto.Digest `codec:"att"`

	// Hash is the fingerprint of the real-world outcome. The engine
	// stores it verbatim and attaches no meaning to it.
	Hash crypto.Digest `codec:"out"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (oa OutcomeAttestation) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.OutcomeAttestation, protocol.Encode(&oa)
}

// SignedProposal is a proposal submission signed by its proposer.
type SignedProposal struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Submission is the proposal being signed.
	Submission ProposalSubmission `codec:"sub"`

	// Sig is a signature over the hash of Submission by the proposer's
	// key.
	Sig crypto.Signature `codec:"sig"`
}

// Verify checks the submission's signature against the proposer identity it
// names.
func (sp SignedProposal) Verify() bool {
	return crypto.SignatureVerifier(sp.Submission.Proposer).Verify(sp.Submission, sp.Sig)
}

// BatchPrep enqueues the submission's signature into bv. It is the caller's
// responsibility to call bv.Verify().
func (sp SignedProposal) BatchPrep(bv crypto.BatchVerifier) {
	bv.EnqueueSignature(crypto.SignatureVerifier(sp.Submission.Proposer), sp.Submission, sp.Sig)
}

// SignedPrediction is a prediction signed by the voting agent.
type SignedPrediction struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Prediction is the vote being signed.
	Prediction Prediction `codec:"prd"`

	// Sig is a signature over the hash of Prediction by the voter's key.
	Sig crypto.Signature `codec:"sig"`
}

// Verify checks the prediction's signature against the agent identity it
// names.
func (sp SignedPrediction) Verify() bool {
	return crypto.SignatureVerifier(sp.Prediction.Agent).Verify(sp.Prediction, sp.Sig)
}

// BatchPrep enqueues the prediction's signature into bv. It is the caller's
// responsibility to call bv.Verify().
func (sp SignedPrediction) BatchPrep(bv crypto.BatchVerifier) {
	bv.EnqueueSignature(crypto.SignatureVerifier(sp.Prediction.Agent), sp.Prediction, sp.Sig)
}

// SignedOutcome is an outcome attestation signed by its attestor.
type SignedOutcome struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Attestation is the outcome recording being signed.
	Attestation OutcomeAttestation `codec:"oat"`

	// Sig is a signature over the hash of Attestation by the attestor's
	// key.
	Sig crypto.Signature `codec:"sig"`
}

// Verify checks the attestation's signature against the attestor identity it
// names.
func (so SignedOutcome) Verify() bool {
	return crypto.SignatureVerifier(so.Attestation.Attestor).Verify(so.Attestation, so.Sig)
}

// BatchPrep enqueues the attestation's signature into bv. It is the caller's
// responsibility to call bv.Verify().
func (so SignedOutcome) BatchPrep(bv crypto.BatchVerifier) {
	bv.EnqueueSignature(crypto.SignatureVerifier(so.Attestation.Attestor), so.Attestation, so.Sig)
}
