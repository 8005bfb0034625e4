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
	"strings"
)

// Gauge represent a single gauge variable.
type Gauge struct {
	c couge
}

// makeGauge creates a gauge without registering it anywhere.
func makeGauge(metric MetricName) *Gauge {
	return &Gauge{c: couge{
		values:        make([]*cougeValues, 0),
		description:   metric.Description,
		name:          metric.Name,
		labels:        make(map[string]int),
		valuesIndices: make(map[int]int),
	}}
}

// MakeGauge create a new gauge with the provided name and description.
func MakeGauge(metric MetricName) *Gauge {
	g := makeGauge(metric)
	g.Register(nil)
	return g
}

// NewGauge is a shortcut to MakeGauge in one shorter line.
func NewGauge(name, desc string) *Gauge {
	return MakeGauge(MetricName{Name: name, Description: desc})
}

// Register registers the gauge with the default/specific registry
func (gauge *Gauge) Register(reg *Registry) {
	if reg == nil {
		DefaultRegistry().Register(gauge)
	} else {
		reg.Register(gauge)
	}
}

// Deregister deregisters the gauge with the default/specific registry
func (gauge *Gauge) Deregister(reg *Registry) {
	if reg == nil {
		DefaultRegistry().Deregister(gauge)
	} else {
		reg.Deregister(gauge)
	}
}

// Add increases gauge by x
func (gauge *Gauge) Add(x uint64) {
	gauge.c.fastAddUint64(x)
}

// Set sets gauge to x
func (gauge *Gauge) Set(x uint64) {
	gauge.c.fastSetUint64(x)
}

// SetLabels sets gauge to x with the given labels
func (gauge *Gauge) SetLabels(x uint64, labels map[string]string) {
	if len(labels) == 0 {
		gauge.c.fastSetUint64(x)
	} else {
		gauge.c.setLabels(float64(x), labels)
	}
}

// GetUint64Value returns the value of the gauge.
func (gauge *Gauge) GetUint64Value() (x uint64) {
	return gauge.c.intValue.Load()
}

// GetUint64ValueForLabels returns the value of the gauge for the given labels or 0 if it's not found.
func (gauge *Gauge) GetUint64ValueForLabels(labels map[string]string) uint64 {
	return gauge.c.getUint64ValueForLabels(labels)
}

// WriteMetric writes the metric into the output stream
func (gauge *Gauge) WriteMetric(buf *strings.Builder, parentLabels string) {
	gauge.c.writeMetric(buf, "gauge", parentLabels)
}

// AddMetric adds the metric into the map
func (gauge *Gauge) AddMetric(values map[string]float64) {
	gauge.c.addMetric(values)
}
