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
	"fmt"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/protocol"
)

// An Event is one entry of the audit trail. Every successful mutating
// operation emits exactly one event carrying the operation's key arguments
// and resulting counters; failed operations emit none.
//
// Events double as the engine's mutation log: applying an event to the
// stores performs the state change it describes, so replaying a journal of
// events rebuilds exactly the state the original operations produced.
type Event interface {
	// Tag identifies the concrete event type on the wire.
	Tag() protocol.Tag
}

// AgentRegistered records the admission of a new agent to the roster.
type AgentRegistered struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Identity   crypto.Digest     `codec:"id"`
	Label      string            `codec:"lbl"`
	Reputation basics.Reputation `codec:"rep"`
}

// Tag implements Event.
func (AgentRegistered) Tag() protocol.Tag { return protocol.AgentRegisteredTag }

// ProposalCreated records a successful proposal submission. It carries the
// full submission, so replaying it recreates the proposal record exactly.
type ProposalCreated struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Index          basics.ProposalIndex `codec:"idx"`
	Proposer       crypto.Digest        `codec:"prp"`
	Config         []byte               `codec:"cfg"`
	PredictedValue int64                `codec:"pv"`
	Timestamp      int64                `codec:"ts"`
}

// Tag implements Event.
func (ProposalCreated) Tag() protocol.Tag { return protocol.ProposalCreatedTag }

// PredictionSubmitted records one agent's accepted vote on a proposal.
type PredictionSubmitted struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Index   basics.ProposalIndex `codec:"idx"`
	Agent   crypto.Digest        `codec:"agt"`
	Support bool                 `codec:"sup"`
}

// Tag implements Event.
func (PredictionSubmitted) Tag() protocol.Tag { return protocol.PredictionSubmittedTag }

// DecisionExecuted records the computed decision and the final tallies it
// was computed from.
type DecisionExecuted struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Index        basics.ProposalIndex `codec:"idx"`
	Approved     bool                 `codec:"app"`
	SupportCount uint64               `codec:"sup"`
	OpposeCount  uint64               `codec:"opp"`
}

// Tag implements Event.
func (DecisionExecuted) Tag() protocol.Tag { return protocol.DecisionExecutedTag }

// OutcomeRecorded records the outcome fingerprint attached to a decided
// proposal.
type OutcomeRecorded struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Index basics.ProposalIndex `codec:"idx"`
	Hash  crypto.Digest        `codec:"out"`
}

// Tag implements Event.
func (OutcomeRecorded) Tag() protocol.Tag { return protocol.OutcomeRecordedTag }

// ReputationUpdated records an agent's reputation after an adjustment. The
// event carries the resulting score rather than the delta, so applying it is
// idempotent and replay cannot double-count.
type ReputationUpdated struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Identity   crypto.Digest     `codec:"id"`
	Reputation basics.Reputation `codec:"rep"`
}

// Tag implements Event.
func (ReputationUpdated) Tag() protocol.Tag { return protocol.ReputationUpdatedTag }

// EncodeEvent returns the canonical encoding of ev.
func EncodeEvent(ev Event) []byte {
	return protocol.Encode(ev)
}

// DecodeEvent decodes the canonical encoding of the event type identified by
// tag.
func DecodeEvent(tag protocol.Tag, data []byte) (Event, error) {
	switch tag {
	case protocol.AgentRegisteredTag:
		var ev AgentRegistered
		err := protocol.Decode(data, &ev)
		return ev, err
	case protocol.ProposalCreatedTag:
		var ev ProposalCreated
		err := protocol.Decode(data, &ev)
		return ev, err
	case protocol.PredictionSubmittedTag:
		var ev PredictionSubmitted
		err := protocol.Decode(data, &ev)
		return ev, err
	case protocol.DecisionExecutedTag:
		var ev DecisionExecuted
		err := protocol.Decode(data, &ev)
		return ev, err
	case protocol.OutcomeRecordedTag:
		var ev OutcomeRecorded
		err := protocol.Decode(data, &ev)
		return ev, err
	case protocol.ReputationUpdatedTag:
		var ev ReputationUpdated
		err := protocol.Decode(data, &ev)
		return ev, err
	default:
		return nil, fmt.Errorf("arbitration: unknown event tag %q", string(tag))
	}
}
