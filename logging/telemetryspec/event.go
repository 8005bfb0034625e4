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

package telemetryspec

import (
	"time"
)

// Telemetry Events

// Event is the type used to identify telemetry events
// We want these to be stable and easy to find / document so we can create
// aggregates on specific events
type Event string

// StartupEvent event
const StartupEvent Event = "Startup"

// NameValue defines a named value, for recording configuration overrides
type NameValue struct {
	Name  string
	Value interface{}
}

// StartupEventDetails contains details for the StartupEvent
type StartupEventDetails struct {
	Version      string
	CommitHash   string
	Branch       string
	Channel      string
	InstanceHash string
	Overrides    []NameValue
}

// HeartbeatEvent is sent periodically to indicate node is running
const HeartbeatEvent Event = "Heartbeat"

// HeartbeatEventDetails contains details for the HeartbeatEvent
type HeartbeatEventDetails struct {
	Info struct {
		AgentCount    uint64 `json:"agentCount"`
		ProposalCount uint64 `json:"proposalCount"`
		DecidedCount  uint64 `json:"decidedCount"`
		RecordedCount uint64 `json:"recordedCount"`
	} `json:"Info"`
	Metrics map[string]float64 `json:"m"`
}

// ShutdownEvent event
const ShutdownEvent Event = "Shutdown"

// DecisionEvent event is sent when a proposal reaches a decision
const DecisionEvent Event = "DecisionReached"

// DecisionEventDetails contains details for the DecisionEvent
type DecisionEventDetails struct {
	ProposalID   uint64
	Approved     bool
	SupportCount uint64
	OpposeCount  uint64
	// Elapsed is the time from proposal submission to decision, in
	// nanoseconds, as observed by this node.
	Elapsed int64
}

// OutcomeEvent event is sent when an outcome hash is recorded for a
// decided proposal
const OutcomeEvent Event = "OutcomeRecorded"

// OutcomeEventDetails contains details for the OutcomeEvent
type OutcomeEventDetails struct {
	ProposalID  uint64
	OutcomeHash string
}

// JournalReplayEvent event is sent after the journal has been replayed
// into a fresh engine at startup
const JournalReplayEvent Event = "JournalReplay"

// JournalReplayEventDetails contains details for the JournalReplayEvent
type JournalReplayEventDetails struct {
	Entries  uint64
	Duration time.Duration
	HeadHash string
}

// SnapshotEvent event is sent when a state snapshot has been written
const SnapshotEvent Event = "Snapshot"

// SnapshotEventDetails contains details for the SnapshotEvent
type SnapshotEventDetails struct {
	Sequence uint64
	Size     uint64
	Duration time.Duration
	Uploaded bool
}

// Telemetry Operations

// Operation is the type used to identify the long running operations
// reported through StartOperation / Stop pairs
type Operation string

// JournalReplayOperation is started when the node begins replaying the
// journal into a fresh engine
const JournalReplayOperation Operation = "JournalReplay"

// SnapshotOperation is started when the node begins writing a state
// snapshot
const SnapshotOperation Operation = "Snapshot"

// Telemetry Categories

// Category is the type used to identify categories of telemetry events
// The categories are used to group related events together
type Category string

// ApplicationState category contains events that occur during normal
// operation of the daemon
const ApplicationState Category = "ApplicationState"

// Arbitration category contains events emitted by the decision engine
const Arbitration Category = "Arbitration"
