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

// Package lib contains the shared bits used by the REST route handlers.
package lib

import (
	"context"
	"net/http"

	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/node"
	"github.com/algorand/go-arbiter/protocol"
)

// ReqContext is passed to each of the handlers below via wrapCtx, allowing
// handlers to interact with the node.
type ReqContext struct {
	Node     *node.ArbiterNode
	Log      logging.Logger
	Shutdown <-chan struct{}
}

// ErrorModel defines a user friendly mechanism to display errors
type ErrorModel struct {
	Message string `json:"message"`
}

// Route type description
type Route struct {
	Name        string
	Method      string
	Path        string
	HandlerFunc func(ReqContext, http.ResponseWriter, *http.Request)
}

// Routes contains all routes
type Routes []Route

// ErrorResponse sets the specified status code (should != 200), and fills in
// a human readable error.
func ErrorResponse(w http.ResponseWriter, status int, internalErr error, publicErr string, logger logging.Logger) {
	logger.Infof("platform error: %v", internalErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err := w.Write(protocol.EncodeJSON(ErrorModel{Message: publicErr}))
	if err != nil {
		logger.Warnf("arbiterd failed to write an error response: %v", err)
	}
}

type pathParamsContextKey struct{}

// RequestWithPathParams returns a shallow copy of the request whose context
// carries the route's path parameters. The echo router keeps parameters on
// its own context type, so they have to be rebound for handlers that only
// see the *http.Request.
func RequestWithPathParams(r *http.Request, names []string, values []string) *http.Request {
	if len(names) == 0 {
		return r
	}
	params := make(map[string]string, len(names))
	for i, name := range names {
		if i < len(values) {
			params[name] = values[i]
		}
	}
	return r.WithContext(context.WithValue(r.Context(), pathParamsContextKey{}, params))
}

// PathParam returns the named path parameter recorded on the request, or the
// empty string when the route did not capture it.
func PathParam(r *http.Request, name string) string {
	params, ok := r.Context().Value(pathParamsContextKey{}).(map[string]string)
	if !ok {
		return ""
	}
	return params[name]
}
