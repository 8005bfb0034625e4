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
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/algorand/go-arbiter/test/partitiontest"
	"github.com/stretchr/testify/require"
)

func TestMetricCounter(t *testing.T) {
	partitiontest.PartitionTest(t)

	counter := MakeCounter(MetricName{Name: "metric_test_name1", Description: "this is the metric test for counter object"})
	defer counter.Deregister(nil)

	for i := 0; i < 20; i++ {
		counter.Inc(map[string]string{"pid": "123", "data_host": fmt.Sprintf("host%d", i%5)})
	}

	// the loop above created a single metric name with five different label
	// sets ( host0, host1 .. host4 ), each incremented exactly 4 times.
	for i := 0; i < 5; i++ {
		labels := map[string]string{"pid": "123", "data_host": fmt.Sprintf("host%d", i)}
		require.Equal(t, uint64(4), counter.GetUint64ValueForLabels(labels))
	}

	values := make(map[string]float64)
	counter.AddMetric(values)
	require.Equal(t, 5, len(values))
	for k, v := range values {
		require.InDelta(t, 4, v, 0.01, "metric %s", k)
	}
}

func TestMetricCounterFastInts(t *testing.T) {
	partitiontest.PartitionTest(t)

	counter := MakeCounter(MetricName{Name: "metric_test_name1", Description: "this is the metric test for counter object"})
	defer counter.Deregister(nil)

	for i := 0; i < 20; i++ {
		counter.Inc(nil)
	}
	counter.AddUint64(2, nil)

	require.Equal(t, uint64(22), counter.GetUint64Value())

	values := make(map[string]float64)
	counter.AddMetric(values)
	require.Equal(t, 1, len(values))
	require.InDelta(t, 22, values["metric_test_name1"], 0.01)

	buf := strings.Builder{}
	counter.WriteMetric(&buf, "")
	require.Contains(t, buf.String(), "# HELP metric_test_name1 this is the metric test for counter object\n")
	require.Contains(t, buf.String(), "# TYPE metric_test_name1 counter\n")
	require.Contains(t, buf.String(), "metric_test_name1 22\n")
}

func TestMetricCounterMixed(t *testing.T) {
	partitiontest.PartitionTest(t)

	counter := MakeCounter(MetricName{Name: "metric_test_name1", Description: "this is the metric test for counter object"})
	defer counter.Deregister(nil)

	// the no-labels fast path and the labeled slow path feed the same counter.
	counter.Inc(nil)
	counter.Inc(nil)
	counter.Inc(nil)
	counter.AddUint64(4, map[string]string{"case": "labeled"})

	require.Equal(t, uint64(3), counter.GetUint64Value())
	require.Equal(t, uint64(4), counter.GetUint64ValueForLabels(map[string]string{"case": "labeled"}))

	buf := strings.Builder{}
	counter.WriteMetric(&buf, `host="h"`)
	require.Contains(t, buf.String(), "metric_test_name1{host=\"h\"} 3\n")
	require.Contains(t, buf.String(), "metric_test_name1{host=\"h\",case=\"labeled\"} 4\n")

	values := make(map[string]float64)
	counter.AddMetric(values)
	require.Equal(t, 2, len(values))
	require.InDelta(t, 3, values["metric_test_name1"], 0.01)
	require.InDelta(t, 4, values["metric_test_name1_case__labeled_"], 0.01)
}

func TestMetricCounterConcurrentFastPath(t *testing.T) {
	partitiontest.PartitionTest(t)

	counter := MakeCounter(MetricName{Name: "concurrent_counter", Description: "concurrent fast path increments"})
	defer counter.Deregister(nil)

	const goroutines = 8
	const perGoroutine = 1000
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				counter.Inc(nil)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, uint64(goroutines*perGoroutine), counter.GetUint64Value())
}

func TestCounterAddMicrosecondsSince(t *testing.T) {
	partitiontest.PartitionTest(t)

	counter := MakeCounter(MetricName{Name: "elapsed_counter", Description: "elapsed time counter"})
	defer counter.Deregister(nil)

	start := time.Now().Add(-time.Millisecond)
	counter.AddMicrosecondsSince(start, nil)
	require.GreaterOrEqual(t, counter.GetUint64Value(), uint64(1000))
}
