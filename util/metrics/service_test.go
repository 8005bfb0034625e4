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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/algorand/go-arbiter/test/partitiontest"
	"github.com/stretchr/testify/require"
)

func TestMetricServiceStartShutdown(t *testing.T) {
	partitiontest.PartitionTest(t)

	service := MakeMetricService(&ServiceConfig{
		Labels: map[string]string{
			"host_name":  "host_one",
			"session_id": "AFX-229"},
	})

	require.NoError(t, service.Start(context.Background()))
	require.Equal(t, ErrMetricServiceAlreadyRunning, service.Start(context.Background()))
	require.NoError(t, service.Shutdown())
	require.Equal(t, ErrMetricServiceNotRunning, service.Shutdown())
}

func TestMetricServiceHandler(t *testing.T) {
	partitiontest.PartitionTest(t)

	service := MakeMetricService(&ServiceConfig{
		Labels: map[string]string{
			"host_name":  "host_one",
			"session_id": "AFX-229"},
	})

	// before Start the handler refuses to serve.
	rec := httptest.NewRecorder()
	service.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, service.Start(context.Background()))
	defer func() {
		require.NoError(t, service.Shutdown())
	}()

	counter := MakeCounter(MetricName{Name: "service_test_counter", Description: "counter served over http"})
	defer counter.Deregister(nil)
	counter.Inc(nil)

	rec = httptest.NewRecorder()
	service.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, prometheusContentType, rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	require.Contains(t, body, "service_test_counter{")
	// map iteration order is not fixed, check each label individually.
	require.Contains(t, body, "host_name=\"host_one\"")
	require.Contains(t, body, "session_id=\"AFX-229\"")
	require.Contains(t, body, "pid=\"")
	require.Contains(t, body, "host=\"")
	require.Contains(t, body, "} 1\n")

	// the running service forwards the default prometheus registry, which
	// carries the client library's built-in process and go collectors.
	require.Contains(t, body, "go_goroutines")
}

func TestMetricServiceLabelDecoration(t *testing.T) {
	partitiontest.PartitionTest(t)

	service := MakeMetricService(&ServiceConfig{})
	require.Contains(t, service.config.Labels, "pid")
	require.Contains(t, service.formattedLabels, "pid=\"")
}
