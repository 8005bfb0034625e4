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

// Telemetry metrics

// Metric is the type used to identify metrics
// We want these to be stable and easy to find / document so we can create
// aggregates on specific metrics
type Metric string

// MetricDetails is an interface to be implemented by structs containing
// telemetry metrics
type MetricDetails interface {
	Identifier() Metric
}

//-------------------------------------------------------
// DecisionRound

// DecisionRoundMetrics is the set of metrics captured when a proposal is
// evaluated to a decision
type DecisionRoundMetrics struct {
	ProposalID      uint64        `json:"prop"`
	PredictionCount uint64        `json:"npred"`
	SupportCount    uint64        `json:"nsup"`
	OpposeCount     uint64        `json:"nopp"`
	Approved        bool          `json:"approved"`
	EvaluationTime  time.Duration `json:"evalns"`
}

// Identifier implements the required MetricDetails interface, retrieving
// the Identifier for this set of metrics.
func (m DecisionRoundMetrics) Identifier() Metric {
	return Metric("decision")
}

//-------------------------------------------------------
// JournalReplay

// JournalReplayMetrics is the set of metrics captured while replaying
// the journal at startup
type JournalReplayMetrics struct {
	Entries     uint64        `json:"entries"`
	Registered  uint64        `json:"registered"`
	Proposals   uint64        `json:"proposals"`
	Predictions uint64        `json:"predictions"`
	ReplayTime  time.Duration `json:"replayns"`
}

// Identifier implements the required MetricDetails interface, retrieving
// the Identifier for this set of metrics.
func (m JournalReplayMetrics) Identifier() Metric {
	return Metric("journalReplay")
}

//-------------------------------------------------------
// Snapshot

// SnapshotMetrics is the set of metrics captured when a state snapshot
// is written
type SnapshotMetrics struct {
	Sequence     uint64        `json:"seq"`
	RawSize      uint64        `json:"rawsize"`
	WrittenSize  uint64        `json:"wsize"`
	SnapshotTime time.Duration `json:"snapns"`
}

// Identifier implements the required MetricDetails interface, retrieving
// the Identifier for this set of metrics.
func (m SnapshotMetrics) Identifier() Metric {
	return Metric("snapshot")
}
