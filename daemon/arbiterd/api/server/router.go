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

// Package server Arbiterd REST API.
package server

import (
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/common"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/lib"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/lib/middlewares"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/server/v1/routes"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/node"
	"github.com/algorand/go-arbiter/util/tokens"
)

const (
	apiV1Tag            = "/v1"
	debugRouteName      = "debug"
	pprofEndpointPrefix = "/debug/pprof/"

	// TokenHeader is the header where we put the token.
	TokenHeader = "X-Arbiter-API-Token"

	// MaxRequestBodyBytes is the maximum request body size that we allow in our APIs.
	MaxRequestBodyBytes = "10MB"
)

// wrapCtx passes a common context to each request without a global variable.
// The echo router keeps path parameters on its own context type, so they are
// rebound onto the request before the handler sees it.
func wrapCtx(ctx lib.ReqContext, handler func(lib.ReqContext, http.ResponseWriter, *http.Request)) echo.HandlerFunc {
	return func(context echo.Context) error {
		request := lib.RequestWithPathParams(context.Request(), context.ParamNames(), context.ParamValues())
		handler(ctx, context.Response(), request)
		return nil
	}
}

// registerHandlers registers a set of Routes to [router]. if [prefix] is not empty, it
// registers the routes under [prefix]. Anything in [m] gets applied to every route.
func registerHandlers(router *echo.Echo, prefix string, routes lib.Routes, ctx lib.ReqContext, m ...echo.MiddlewareFunc) {
	for _, route := range routes {
		r := router.Add(route.Method, prefix+route.Path, wrapCtx(ctx, route.HandlerFunc), m...)
		r.Name = route.Name
	}
}

// NewRouter builds and returns a new router from routes
func NewRouter(logger logging.Logger, node *node.ArbiterNode, shutdown <-chan struct{}, apiToken string, adminAPIToken string, listener net.Listener, numConnectionsLimit uint64) *echo.Echo {
	if err := tokens.ValidateAPIToken(apiToken); err != nil {
		logger.Errorf("Invalid apiToken was passed to NewRouter ('%s'): %v", apiToken, err)
	}
	if err := tokens.ValidateAPIToken(adminAPIToken); err != nil {
		logger.Errorf("Invalid adminAPIToken was passed to NewRouter ('%s'): %v", adminAPIToken, err)
	}

	adminMiddleware := []echo.MiddlewareFunc{
		middlewares.MakeAuth(TokenHeader, []string{adminAPIToken}),
	}
	publicMiddleware := []echo.MiddlewareFunc{
		middleware.BodyLimit(MaxRequestBodyBytes),
		middlewares.MakeAuth(TokenHeader, []string{adminAPIToken, apiToken}),
	}

	e := echo.New()

	e.Listener = listener
	e.HideBanner = true

	e.Pre(
		middlewares.MakeConnectionLimiter(numConnectionsLimit),
		middleware.RemoveTrailingSlash())
	e.Use(
		middlewares.MakeLogger(logger),
		middlewares.MakeCORS(TokenHeader),
		middlewares.MakePNA(),
	)

	// Request Context
	ctx := lib.ReqContext{Node: node, Log: logger, Shutdown: shutdown}

	// Registering common routes (no auth)
	registerHandlers(e, "", common.Routes, ctx)

	// Registering v1 routes
	registerHandlers(e, apiV1Tag, routes.V1Routes, ctx, publicMiddleware...)

	// Registering v1 admin routes, requiring the admin token
	registerHandlers(e, apiV1Tag, routes.V1AdminRoutes, ctx, adminMiddleware...)

	// Registering pprof routes
	if node.Config().EnableProfiler {
		// Registers /debug/pprof handler under root path and under /urlAuth path
		// to support header or url-provided token.
		pprofHandler := echo.WrapHandler(http.DefaultServeMux)
		e.GET(pprofEndpointPrefix+"*", pprofHandler, adminMiddleware...)
		urlAuthRoute := e.GET(fmt.Sprintf("/urlAuth/:%s%s*", middlewares.TokenPathParam, pprofEndpointPrefix), pprofHandler, adminMiddleware...)
		urlAuthRoute.Name = debugRouteName
	}

	return e
}
