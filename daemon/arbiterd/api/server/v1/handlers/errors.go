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

package handlers

var (
	errFailedRetrievingNodeStatus = "failed retrieving node status"
	errFailedLookingUpJournal     = "failed to retrieve information from the journal"
	errFailedParsingProposalIndex = "failed to parse the proposal index"
	errFailedToParseIdentity      = "failed to parse the identity"
	errFailedToParseOutcomeHash   = "failed to parse the outcome hash"
	errFailedToParseRequestBody   = "failed to parse the request body"
	errFailedToParseSubmission    = "failed to parse the signed submission"
	errAgentDoesNotExist          = "agent does not exist"
	errNoIdentitySpecified        = "no identity was specified"
	errInternalFailure            = "internal failure"
	errSignedSubmissionsRequired  = "this node accepts signed submissions only, use the /submissions endpoints"
	errJournalVerifyFailed        = "journal hash chain verification failed"
	errFailedWritingSnapshot      = "failed writing the snapshot"
)
