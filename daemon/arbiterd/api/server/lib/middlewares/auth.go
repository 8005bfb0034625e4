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

package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenPathParam is the name of the path parameter used by URL token-providing routes.
const TokenPathParam = "token"

// InvalidTokenMessage is the message set when an invalid / missing token is found.
const InvalidTokenMessage = "Invalid API Token"

// MakeAuth constructs the auth middleware function. The provided tokens are
// the keys to the kingdom, any of them grants access to the guarded routes.
func MakeAuth(apiHeader string, apiTokens []string) echo.MiddlewareFunc {
	apiTokenBytes := make([][]byte, 0, len(apiTokens))
	for _, token := range apiTokens {
		apiTokenBytes = append(apiTokenBytes, []byte(token))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			request := ctx.Request()

			// OPTIONS responses never require auth
			if request.Method == http.MethodOptions {
				return next(ctx)
			}

			// Grab the apiToken from the HTTP header, or as a bearer token
			providedToken := []byte(request.Header.Get(apiHeader))
			if len(providedToken) == 0 {
				// Accept tokens provided in a bearer token format.
				authentication := strings.SplitN(request.Header.Get("Authorization"), " ", 2)
				if len(authentication) == 2 && strings.EqualFold("Bearer", authentication[0]) {
					providedToken = []byte(authentication[1])
				}
			}

			// Handle debug routes with the URL and parameter token.
			if len(providedToken) == 0 {
				if urlToken := ctx.Param(TokenPathParam); urlToken != "" {
					providedToken = []byte(urlToken)

					// Internally, pprof matches exact routes and won't match
					// the token prefix, so the request path is rewritten to
					// exclude it before handing over to the handler.
					prefix := "/urlAuth/" + urlToken
					if strings.HasPrefix(request.URL.Path, prefix) {
						newPath := strings.TrimPrefix(request.URL.Path, prefix)
						request.URL.Path = newPath
						ctx.SetPath(newPath)
					}
				}
			}

			// Check the token in constant time
			for _, tokenBytes := range apiTokenBytes {
				if subtle.ConstantTimeCompare(providedToken, tokenBytes) == 1 {
					return next(ctx)
				}
			}

			return echo.NewHTTPError(http.StatusUnauthorized, InvalidTokenMessage)
		}
	}
}
