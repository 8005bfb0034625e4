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
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"
)

// MakeConnectionLimiter makes an echo middleware that limits the number of
// simultaneously processed requests. Requests over the limit are answered
// with 429 Too Many Requests without invoking the handler.
func MakeConnectionLimiter(limit uint64) echo.MiddlewareFunc {
	sem := semaphore.NewWeighted(int64(limit))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !sem.TryAcquire(1) {
				return ctx.NoContent(http.StatusTooManyRequests)
			}
			defer sem.Release(1)

			return next(ctx)
		}
	}
}
