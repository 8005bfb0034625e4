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
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/algorand/go-deadlock"
)

// couge is the common implementation backing both Counter and Gauge.
type couge struct {
	// Collects the value for the special fast path with no labels through
	// Inc(nil) and AddUint64(x, nil).
	intValue atomic.Uint64

	deadlock.Mutex
	name          string
	description   string
	values        []*cougeValues
	labels        map[string]int // map each label ( i.e. httpErrorCode ) to an index.
	valuesIndices map[int]int
}

type cougeValues struct {
	value           float64
	labels          map[string]string
	formattedLabels string
}

func (cv *cougeValues) createFormattedLabel() {
	var buf strings.Builder
	if len(cv.labels) < 1 {
		return
	}
	for k, v := range cv.labels {
		buf.WriteString("," + k + "=\"" + v + "\"")
	}

	cv.formattedLabels = buf.String()[1:]
}

// findLabelIndex returns the combined index of the given labels, extending the
// known label set as needed. Callers are assumed to hold the lock.
func (cg *couge) findLabelIndex(labels map[string]string) int {
	accumulatedIndex := 0
	for k, v := range labels {
		t := k + ":" + v
		// do we already have this key ( label ) in our map ?
		if i, has := cg.labels[t]; has {
			// yes, we do. use this index.
			accumulatedIndex += i
		} else {
			// no, we don't have it.
			cg.labels[t] = int(math.Exp2(float64(len(cg.labels))))
			accumulatedIndex += cg.labels[t]
		}
	}
	return accumulatedIndex
}

// fastAddUint64 increases the no-labels value without taking the lock.
func (cg *couge) fastAddUint64(x uint64) {
	if cg.intValue.Add(x) == x {
		// What we just added is the whole value. This is the first add,
		// so create the entry for the no-labels value; writeMetric and
		// addMetric only walk the values slice.
		cg.addLabels(0, nil)
	}
}

// fastSetUint64 replaces the no-labels value without taking the lock.
func (cg *couge) fastSetUint64(x uint64) {
	if cg.intValue.Swap(x) == 0 && x != 0 {
		// the value was never set before; create the entry for the
		// no-labels value so that writeMetric and addMetric pick it up.
		cg.addLabels(0, nil)
	}
}

// addLabels increases the value associated with the given labels by x.
func (cg *couge) addLabels(x float64, labels map[string]string) {
	cg.Lock()
	defer cg.Unlock()

	labelIndex := cg.findLabelIndex(labels)

	// find where we have the same labels.
	if valIdx, has := cg.valuesIndices[labelIndex]; !has {
		// we need to add a new value.
		val := &cougeValues{
			value:  x,
			labels: labels,
		}
		val.createFormattedLabel()
		cg.values = append(cg.values, val)
		cg.valuesIndices[labelIndex] = len(cg.values) - 1
	} else {
		// update existing value.
		cg.values[valIdx].value += x
	}
}

// setLabels replaces the value associated with the given labels with x.
func (cg *couge) setLabels(x float64, labels map[string]string) {
	cg.Lock()
	defer cg.Unlock()

	labelIndex := cg.findLabelIndex(labels)

	// find where we have the same labels.
	if valIdx, has := cg.valuesIndices[labelIndex]; !has {
		// we need to add a new value.
		val := &cougeValues{
			value:  x,
			labels: labels,
		}
		val.createFormattedLabel()
		cg.values = append(cg.values, val)
		cg.valuesIndices[labelIndex] = len(cg.values) - 1
	} else {
		// replace existing value.
		cg.values[valIdx].value = x
	}
}

// getUint64ValueForLabels returns the value for the given labels or 0 if it's not found.
func (cg *couge) getUint64ValueForLabels(labels map[string]string) uint64 {
	cg.Lock()
	defer cg.Unlock()

	labelIndex := cg.findLabelIndex(labels)
	valIdx, has := cg.valuesIndices[labelIndex]
	if !has {
		return 0
	}
	return uint64(cg.values[valIdx].value)
}

// writeMetric writes the metric into the output stream in Prometheus exposition format.
func (cg *couge) writeMetric(buf *strings.Builder, metricType string, parentLabels string) {
	cg.Lock()
	defer cg.Unlock()

	if len(cg.values) < 1 {
		return
	}

	buf.WriteString("# HELP ")
	buf.WriteString(cg.name)
	buf.WriteString(" ")
	buf.WriteString(cg.description)
	buf.WriteString("\n# TYPE ")
	buf.WriteString(cg.name)
	buf.WriteString(" ")
	buf.WriteString(metricType)
	buf.WriteString("\n")
	for _, l := range cg.values {
		buf.WriteString(cg.name)
		if len(parentLabels) > 0 || len(l.formattedLabels) > 0 {
			buf.WriteString("{")
			buf.WriteString(parentLabels)
			if len(parentLabels) > 0 && len(l.formattedLabels) > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(l.formattedLabels)
			buf.WriteString("} ")
		} else {
			buf.WriteString(" ")
		}
		value := l.value
		if len(l.labels) == 0 {
			// fold in the value accumulated through the fast path.
			value += float64(cg.intValue.Load())
		}
		buf.WriteString(strconv.FormatFloat(value, 'f', -1, 32))
		buf.WriteString("\n")
	}
}

// addMetric adds the metric into the map used for telemetry heartbeat reporting.
func (cg *couge) addMetric(values map[string]float64) {
	cg.Lock()
	defer cg.Unlock()

	if len(cg.values) < 1 {
		return
	}

	for _, l := range cg.values {
		sum := l.value
		if len(l.labels) == 0 {
			sum += float64(cg.intValue.Load())
		}
		var suffix string
		if len(l.formattedLabels) > 0 {
			suffix = ":" + l.formattedLabels
		}
		values[sanitizeTelemetryName(cg.name+suffix)] = sum
	}
}
