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

// Package metrics provides the counters and gauges reported by the node,
// both in Prometheus exposition format and in telemetry heartbeat messages.
package metrics

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// ArbitrationAgentsRegisteredTotal Total number of agents accepted into the roster
	ArbitrationAgentsRegisteredTotal = MetricName{Name: "arbiter_arbitration_agents_registered_total", Description: "Total number of agents accepted into the roster"}
	// ArbitrationProposalsSubmittedTotal Total number of proposals opened for prediction
	ArbitrationProposalsSubmittedTotal = MetricName{Name: "arbiter_arbitration_proposals_submitted_total", Description: "Total number of proposals opened for prediction"}
	// ArbitrationPredictionsSubmittedTotal Total number of predictions accepted across all proposals
	ArbitrationPredictionsSubmittedTotal = MetricName{Name: "arbiter_arbitration_predictions_submitted_total", Description: "Total number of predictions accepted across all proposals"}
	// ArbitrationDecisionsReachedTotal Total number of proposals that reached a decision
	ArbitrationDecisionsReachedTotal = MetricName{Name: "arbiter_arbitration_decisions_reached_total", Description: "Total number of proposals that reached a decision"}
	// ArbitrationOutcomesRecordedTotal Total number of decided proposals with a recorded outcome hash
	ArbitrationOutcomesRecordedTotal = MetricName{Name: "arbiter_arbitration_outcomes_recorded_total", Description: "Total number of decided proposals with a recorded outcome hash"}

	// JournalAppendsTotal Total number of entries appended to the journal
	JournalAppendsTotal = MetricName{Name: "arbiter_journal_appends_total", Description: "Total number of entries appended to the journal"}
	// JournalSequence Last sequence number written to the journal
	JournalSequence = MetricName{Name: "arbiter_journal_sequence", Description: "Last sequence number written to the journal"}
	// JournalReplayEntriesTotal Total number of journal entries applied during startup replay
	JournalReplayEntriesTotal = MetricName{Name: "arbiter_journal_replay_entries_total", Description: "Total number of journal entries applied during startup replay"}
	// ArchivePutsTotal Total number of decided proposals written to the archive
	ArchivePutsTotal = MetricName{Name: "arbiter_archive_puts_total", Description: "Total number of decided proposals written to the archive"}
	// SnapshotsWrittenTotal Total number of state snapshots written to disk
	SnapshotsWrittenTotal = MetricName{Name: "arbiter_snapshots_written_total", Description: "Total number of state snapshots written to disk"}
)
