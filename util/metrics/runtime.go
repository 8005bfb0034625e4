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
	"runtime/metrics"
	"strconv"
	"strings"

	"github.com/algorand/go-deadlock"
)

// defaultRuntimeMetrics is the default list of runtime/metrics names exported
// by RuntimeMetrics. The list must stay sorted, since metrics.All is sorted
// and the export order follows it.
var defaultRuntimeMetrics = []string{
	"/gc/cycles/total:gc-cycles",
	"/gc/heap/allocs:bytes",
	"/gc/heap/allocs:objects",
	"/gc/heap/frees:bytes",
	"/gc/heap/frees:objects",
	"/gc/heap/goal:bytes",
	"/gc/heap/objects:objects",
	"/gc/pauses:seconds",
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/total:bytes",
	"/sched/goroutines:goroutines",
	"/sched/latencies:seconds",
}

// RuntimeMetrics gathers selected metrics from Go's runtime/metrics interface
// and exposes them for reporting.
type RuntimeMetrics struct {
	descriptions []metrics.Description
	samples      []metrics.Sample
	deadlock.Mutex
}

// NewRuntimeMetrics creates a RuntimeMetrics object, provided a list of metric
// names from the runtime/metrics package. By default it uses defaultRuntimeMetrics.
func NewRuntimeMetrics(names ...string) *RuntimeMetrics {
	if len(names) == 0 {
		names = defaultRuntimeMetrics
	}
	enabled := make(map[string]bool, len(names))
	for _, name := range names {
		enabled[name] = true
	}

	rm := &RuntimeMetrics{}
	for _, d := range metrics.All() {
		if enabled[d.Name] {
			rm.descriptions = append(rm.descriptions, d)
			rm.samples = append(rm.samples, metrics.Sample{Name: d.Name})
		}
	}
	return rm
}

// WriteMetric writes a snapshot of the runtime metrics in Prometheus exposition format.
func (rm *RuntimeMetrics) WriteMetric(buf *strings.Builder, parentLabels string) {
	rm.Lock()
	defer rm.Unlock()

	metrics.Read(rm.samples)
	labels := ""
	if len(parentLabels) > 0 {
		labels = "{" + parentLabels + "}"
	}
	for i, s := range rm.samples {
		name := sanitizePrometheusName("arbiter_go" + s.Name)
		buf.WriteString("# HELP " + name + " " + rm.descriptions[i].Description + "\n")
		buf.WriteString("# TYPE " + name + " gauge\n")
		buf.WriteString(name + labels + " " + formatSampleValue(s.Value) + "\n")
	}
}

// AddMetric adds a snapshot of the runtime metrics to the map used for
// telemetry heartbeat reporting.
func (rm *RuntimeMetrics) AddMetric(m map[string]float64) {
	rm.Lock()
	defer rm.Unlock()

	metrics.Read(rm.samples)
	for _, s := range rm.samples {
		name := sanitizeTelemetryName("go" + s.Name)
		switch s.Value.Kind() {
		case metrics.KindUint64:
			m[name] = float64(s.Value.Uint64())
		case metrics.KindFloat64:
			m[name] = s.Value.Float64()
		case metrics.KindFloat64Histogram:
			m[name] = medianBucket(s.Value.Float64Histogram())
		}
	}
}

func formatSampleValue(v metrics.Value) string {
	switch v.Kind() {
	case metrics.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case metrics.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case metrics.KindFloat64Histogram:
		return strconv.FormatFloat(medianBucket(v.Float64Histogram()), 'f', -1, 64)
	default:
		return "0"
	}
}

// medianBucket reduces a runtime histogram to the lower bound of the bucket
// holding its median sample.
func medianBucket(h *metrics.Float64Histogram) float64 {
	total := uint64(0)
	for _, count := range h.Counts {
		total += count
	}
	if total == 0 {
		return 0
	}
	thresh := total / 2
	total = 0
	for i, count := range h.Counts {
		total += count
		if total >= thresh {
			return h.Buckets[i]
		}
	}
	return 0
}
