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

package main

const (
	// General
	errorNoDataDirectory     = "Data directory not specified.  Please use -d or set $ARBITER_DATA in your environment. Exiting."
	errorOneDataDirSupported = "Only one data directory can be specified for this command."
	errorRequestFail         = "Error processing command: %s"
	errorNodeStatus          = "Cannot contact Arbiter node: %s."
	infoDataDir              = "[Data Directory: %s]"

	// Node
	infoNodeStatus = "Journal sequence: %d\n" +
		"Journal digest: %s\n" +
		"Registered agents: %d\n" +
		"Proposals: %d\n" +
		"Decided proposals: %d\n" +
		"Recorded proposals: %d\n" +
		"Params version: %s\n" +
		"Time since last operation: %s"
	infoJournalHead      = "Journal head: sequence %d digest %s"
	infoJournalEmpty     = "Journal is empty"
	infoJournalVerified  = "Journal verified: %d entries, head digest %s"
	errorJournalVerify   = "Journal verification failed: %s"
	infoSnapshotWritten  = "Snapshot written to %s (journal sequence %d)"
	infoSnapshotUploaded = "Snapshot uploaded to s3 bucket %s as %s"

	// Agent
	infoRegisteredAgent   = "Registered agent %s with reputation %d"
	infoNoAgents          = "No agents registered"
	infoAdjustedAgent     = "Agent %s reputation is now %d"
	errorIdentityRequired = "An agent identity is required. Use --identity or --keyfile."
	errorParseIdentity    = "Failed to parse identity: %s"
	errorParseHash        = "Failed to parse outcome hash: %s"

	// Proposal
	infoProposalSubmitted = "Submitted proposal %d"
	infoNoProposals       = "No proposals submitted"
	infoNoPredictions     = "No predictions recorded for proposal %d"
	infoPredictionPlaced  = "Recorded %s prediction by %s on proposal %d"
	infoDecisionReached   = "Proposal %d decided: %s (%d support / %d oppose)"
	infoOutcomeRecorded   = "Recorded outcome %s for proposal %d"
	errorConfigRequired   = "A configuration payload is required. Use --config or --config-file."
	errorSupportOrOppose  = "Exactly one of --support or --oppose must be given."

	// Key
	infoKeyGenerated = "Generated key for identity %s in %s"
	errorKeyExists   = "Refusing to overwrite existing key file %s"
	errorKeyRead     = "Cannot read key file %s: %s"

	// Node lifecycle
	infoNodeStart               = "Arbiter node successfully started!"
	infoNodeAlreadyStarted      = "Arbiter node was already started!"
	infoNodeDidNotRestart       = "Arbiter node did not restart. The node is still running!"
	infoNodeSuccessfullyStopped = "The node was successfully stopped."
	errorKill                   = "Cannot kill node: %s"
	errorNodeNotDetected        = "Arbiter node does not appear to be running: %s"
	errorNodeFailedToStart      = "Arbiter node failed to start: %s"

	// Bench
	errorBenchCounts  = "Agent and proposal counts must be at least 1."
	errorBenchJournal = "Cannot open bench journal: %s"
	errorBenchStage   = "Bench stage %s failed: %s"
)
