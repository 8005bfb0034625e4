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

package metrics

import (
	"github.com/algorand/go-deadlock"
)

// ServiceConfig contains the information needed to expose collected metrics.
// Labels are attached to every metric written out, so that multiple arbiterd
// instances reporting to the same scraper stay distinguishable.
type ServiceConfig struct {
	Labels map[string]string
}

// MetricService represent a single running metric exposition instance
type MetricService struct {
	config          ServiceConfig
	runningMu       deadlock.Mutex
	running         bool
	formattedLabels string
}
