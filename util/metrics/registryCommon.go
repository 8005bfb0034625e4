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
	"regexp"
	"strings"

	"github.com/algorand/go-deadlock"
)

// Metric represent any collectable metric
type Metric interface {
	// WriteMetric adds metrics in Prometheus exposition format to buf, including parentLabels tags if provided.
	WriteMetric(buf *strings.Builder, parentLabels string)
	// AddMetric adds metrics to a map, used for reporting in telemetry heartbeat messages.
	AddMetric(values map[string]float64)
}

// Registry represents a single set of metrics registry
type Registry struct {
	metrics   []Metric
	metricsMu deadlock.Mutex
}

var defaultRegistry = MakeRegistry()

// MakeRegistry creates a new empty metrics registry
func MakeRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry retrieves the default registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds the given metric to the registry
func (reg *Registry) Register(metric Metric) {
	reg.metricsMu.Lock()
	defer reg.metricsMu.Unlock()
	reg.metrics = append(reg.metrics, metric)
}

// Deregister removes the given metric from the registry
func (reg *Registry) Deregister(metric Metric) {
	reg.metricsMu.Lock()
	defer reg.metricsMu.Unlock()
	for i, m := range reg.metrics {
		if m == metric {
			reg.metrics = append(reg.metrics[:i], reg.metrics[i+1:]...)
			return
		}
	}
}

// AddMetrics adds all the registered metrics into the given map
func (reg *Registry) AddMetrics(values map[string]float64) {
	reg.metricsMu.Lock()
	defer reg.metricsMu.Unlock()
	for _, m := range reg.metrics {
		m.AddMetric(values)
	}
}

// WriteMetrics writes all the registered metrics into the given buffer
func (reg *Registry) WriteMetrics(buf *strings.Builder, parentLabels string) {
	reg.metricsMu.Lock()
	defer reg.metricsMu.Unlock()
	for _, m := range reg.metrics {
		m.WriteMetric(buf, parentLabels)
	}
}

var sanitizeTelemetryCharactersRegexp = regexp.MustCompile("(^[^a-zA-Z_]|[^a-zA-Z0-9_-])")

// sanitizeTelemetryName ensures a metric name reported to telemetry doesn't contain any
// non-alphanumeric characters (apart from - or _) and doesn't start with a number or a hyphen.
func sanitizeTelemetryName(name string) string {
	return sanitizeTelemetryCharactersRegexp.ReplaceAllString(name, "_")
}

// sanitizePrometheusName ensures a metric name reported to telemetry doesn't contain any
// non-alphanumeric characters (apart from _) and doesn't start with a number.
func sanitizePrometheusName(name string) string {
	return strings.ReplaceAll(sanitizeTelemetryName(name), "-", "_")
}
