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

package common

import (
	"encoding/json"
	"net/http"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/lib"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/spec/common"
)

// HealthCheck is an httpHandler for route GET /health
func HealthCheck(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /health HealthCheck
	//---
	//     Summary: Returns OK if healthy.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         description: OK.
	//       default: { description: Unknown Error }
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(nil)
}

// Ready is an httpHandler for route GET /ready
func Ready(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /ready Ready
	//---
	//     Summary: Returns OK if the node is able to answer status queries.
	//     Produces:
	//     - application/json
	//     Schemes:
	//     - http
	//     Responses:
	//       200:
	//         description: OK.
	//       503:
	//         description: Service Unavailable
	//       default: { description: Unknown Error }
	if _, err := ctx.Node.Status(); err != nil {
		ctx.Log.Warnf("ready endpoint: node status unavailable: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(nil)
}

// VersionsHandler is an httpHandler for route GET /versions
func VersionsHandler(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	// swagger:route GET /versions GetVersion
	//
	// Retrieves the supported API versions and the node build information
	//
	//     Produces:
	//     - application/json
	//
	//     Schemes: http
	//
	//     Responses:
	//		200: VersionsResponse
	currentVersion := config.GetCurrentVersion()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := common.Version{
		Versions: []string{"v1"},
		Build: common.BuildVersion{
			Major:       currentVersion.Major,
			Minor:       currentVersion.Minor,
			BuildNumber: currentVersion.BuildNumber,
			CommitHash:  currentVersion.CommitHash,
			Branch:      currentVersion.Branch,
			Channel:     currentVersion.Channel,
		},
	}
	json.NewEncoder(w).Encode(response)
}

// CORS
func optionsHandler(ctx lib.ReqContext, w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
