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

// Functions for Prometheus metrics conversion to our internal data type
// suitable for further reporting

package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// PrometheusDefaultMetrics forwards the metrics collected in the default
// prometheus registry when registered in a Registry.
var PrometheusDefaultMetrics = defaultPrometheusGatherer{}

type defaultPrometheusGatherer struct {
	names []string
}

// WriteMetric writes the default prometheus metrics into the output stream.
func (pg *defaultPrometheusGatherer) WriteMetric(buf *strings.Builder, parentLabels string) {
	for _, metric := range collectPrometheusMetrics(pg.names) {
		metric.WriteMetric(buf, parentLabels)
	}
}

// AddMetric adds the default prometheus metrics into the map.
func (pg *defaultPrometheusGatherer) AddMetric(values map[string]float64) {
	for _, metric := range collectPrometheusMetrics(pg.names) {
		metric.AddMetric(values)
	}
}

// collectPrometheusMetrics gathers the default prometheus registry and
// converts counter and gauge families into Metric objects. A non-empty names
// list restricts the result to the named families.
func collectPrometheusMetrics(names []string) []Metric {
	var result []Metric
	var namesMap map[string]bool
	if len(names) > 0 {
		namesMap = make(map[string]bool, len(names))
		for _, name := range names {
			namesMap[name] = true
		}
	}

	convertLabels := func(m *dto.Metric) map[string]string {
		var labels map[string]string
		if pairs := m.GetLabel(); len(pairs) > 0 {
			labels = make(map[string]string, len(pairs))
			for _, pair := range pairs {
				labels[pair.GetName()] = pair.GetValue()
			}
		}
		return labels
	}

	// Gather returns partial results along with the error; convert whatever
	// families were collected. Errors cannot be logged here since logging
	// imports this package for its own counters.
	families, _ := prometheus.DefaultGatherer.Gather()
	for _, family := range families {
		if namesMap != nil && !namesMap[family.GetName()] {
			continue
		}
		switch family.GetType() {
		case dto.MetricType_COUNTER:
			counter := makeCounter(MetricName{Name: family.GetName(), Description: family.GetHelp()})
			for _, m := range family.GetMetric() {
				counter.c.addLabels(m.GetCounter().GetValue(), convertLabels(m))
			}
			result = append(result, counter)
		case dto.MetricType_GAUGE:
			gauge := makeGauge(MetricName{Name: family.GetName(), Description: family.GetHelp()})
			for _, m := range family.GetMetric() {
				gauge.c.setLabels(m.GetGauge().GetValue(), convertLabels(m))
			}
			result = append(result, gauge)
		}
	}
	return result
}
