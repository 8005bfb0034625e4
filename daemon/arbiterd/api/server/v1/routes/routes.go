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

package routes

import (
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/lib"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/v1/handlers"
)

// V1Routes contains all routes for v1
var V1Routes = lib.Routes{
	lib.Route{
		Name:        "status",
		Method:      "GET",
		Path:        "/status",
		HandlerFunc: handlers.Status,
	},

	lib.Route{
		Name:        "journal-head",
		Method:      "GET",
		Path:        "/journal/head",
		HandlerFunc: handlers.JournalHead,
	},

	lib.Route{
		Name:        "register-agent",
		Method:      "POST",
		Path:        "/agents",
		HandlerFunc: handlers.RegisterAgent,
	},

	lib.Route{
		Name:        "agent-list",
		Method:      "GET",
		Path:        "/agents",
		HandlerFunc: handlers.AgentList,
	},

	lib.Route{
		Name:        "agent-information",
		Method:      "GET",
		Path:        "/agents/:identity",
		HandlerFunc: handlers.AgentInformation,
	},

	lib.Route{
		Name:        "submit-proposal",
		Method:      "POST",
		Path:        "/proposals",
		HandlerFunc: handlers.SubmitProposal,
	},

	lib.Route{
		Name:        "proposal-list",
		Method:      "GET",
		Path:        "/proposals",
		HandlerFunc: handlers.ProposalList,
	},

	lib.Route{
		Name:        "proposal-information",
		Method:      "GET",
		Path:        "/proposals/:index",
		HandlerFunc: handlers.ProposalInformation,
	},

	lib.Route{
		Name:        "prediction-list",
		Method:      "GET",
		Path:        "/proposals/:index/predictions",
		HandlerFunc: handlers.PredictionList,
	},

	lib.Route{
		Name:        "submit-prediction",
		Method:      "POST",
		Path:        "/proposals/:index/predictions",
		HandlerFunc: handlers.SubmitPrediction,
	},

	lib.Route{
		Name:        "evaluate-decision",
		Method:      "POST",
		Path:        "/proposals/:index/decision",
		HandlerFunc: handlers.EvaluateDecision,
	},

	lib.Route{
		Name:        "record-outcome",
		Method:      "POST",
		Path:        "/proposals/:index/outcome",
		HandlerFunc: handlers.RecordOutcome,
	},

	lib.Route{
		Name:        "raw-signed-proposal",
		Method:      "POST",
		Path:        "/submissions/proposal",
		HandlerFunc: handlers.RawSignedProposal,
	},

	lib.Route{
		Name:        "raw-signed-prediction",
		Method:      "POST",
		Path:        "/submissions/prediction",
		HandlerFunc: handlers.RawSignedPrediction,
	},

	lib.Route{
		Name:        "raw-signed-outcome",
		Method:      "POST",
		Path:        "/submissions/outcome",
		HandlerFunc: handlers.RawSignedOutcome,
	},
}

// V1AdminRoutes are v1 routes that require the admin API token.
var V1AdminRoutes = lib.Routes{
	lib.Route{
		Name:        "adjust-reputation",
		Method:      "POST",
		Path:        "/agents/:identity/reputation",
		HandlerFunc: handlers.AdjustReputation,
	},

	lib.Route{
		Name:        "journal-verify",
		Method:      "GET",
		Path:        "/journal/verify",
		HandlerFunc: handlers.VerifyJournal,
	},

	lib.Route{
		Name:        "write-snapshot",
		Method:      "POST",
		Path:        "/snapshot",
		HandlerFunc: handlers.WriteSnapshot,
	},
}
