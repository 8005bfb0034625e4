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

package protocol

// Tag represents an event type identifier. Journal entries carry a Tag field,
// and decoders dispatch on it to recover the concrete event payload.
type Tag string

// Tags, in lexicographic sort order of tag values to avoid duplicates.
const (
	UnknownTag             Tag = "??"
	AgentRegisteredTag     Tag = "ag"
	DecisionExecutedTag    Tag = "de"
	OutcomeRecordedTag     Tag = "oc"
	ProposalCreatedTag     Tag = "pc"
	PredictionSubmittedTag Tag = "pd"
	ReputationUpdatedTag   Tag = "ru"
)

// EventTags is the set of valid journal event tags.
var EventTags = map[Tag]bool{
	AgentRegisteredTag:     true,
	DecisionExecutedTag:    true,
	OutcomeRecordedTag:     true,
	ProposalCreatedTag:     true,
	PredictionSubmittedTag: true,
	ReputationUpdatedTag:   true,
}
