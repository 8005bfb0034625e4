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
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMetricServiceAlreadyRunning Generated when we call Start and the metric service is already running
	ErrMetricServiceAlreadyRunning = errors.New("MetricService is already running")
	// ErrMetricServiceNotRunning is not currently running
	ErrMetricServiceNotRunning = errors.New("MetricService not running")
)

// prometheusContentType is the content type of the text exposition format.
const prometheusContentType = "text/plain; version=0.0.4; charset=utf-8"

// MakeMetricService creates a new metrics exposition service.
func MakeMetricService(config *ServiceConfig) *MetricService {
	server := &MetricService{
		config: *config,
	}
	if server.config.Labels == nil {
		server.config.Labels = make(map[string]string)
	}
	if _, hasPid := server.config.Labels["pid"]; !hasPid {
		pid := os.Getpid()
		server.config.Labels["pid"] = strconv.FormatInt(int64(pid), 10)
	}
	if _, hasHost := server.config.Labels["host"]; !hasHost {
		if hostname, err := os.Hostname(); err == nil && len(hostname) > 0 {
			server.config.Labels["host"] = hostname
		}
	}
	server.formattedLabels = formatLabels(server.config.Labels)
	return server
}

func formatLabels(labels map[string]string) string {
	var buf strings.Builder
	if len(labels) == 0 {
		return ""
	}
	for k, v := range labels {
		buf.WriteString("," + k + "=\"" + v + "\"")
	}
	return buf.String()[1:]
}

// Start makes the service begin answering metrics requests. It also attaches
// the default prometheus registry to the default Registry, so that metrics
// collected by third party libraries show up in the output.
func (server *MetricService) Start(ctx context.Context) error {
	server.runningMu.Lock()
	defer server.runningMu.Unlock()
	if server.running {
		return ErrMetricServiceAlreadyRunning
	}
	DefaultRegistry().Register(&PrometheusDefaultMetrics)
	server.running = true
	return nil
}

// Shutdown the running service
func (server *MetricService) Shutdown() error {
	server.runningMu.Lock()
	defer server.runningMu.Unlock()
	if !server.running {
		return ErrMetricServiceNotRunning
	}
	DefaultRegistry().Deregister(&PrometheusDefaultMetrics)
	server.running = false
	return nil
}

// Handler returns the HTTP handler serving the default registry in Prometheus
// exposition format. While the service is not running the handler answers
// with 503 Service Unavailable.
func (server *MetricService) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.runningMu.Lock()
		running := server.running
		server.runningMu.Unlock()
		if !running {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var buf strings.Builder
		DefaultRegistry().WriteMetrics(&buf, server.formattedLabels)
		w.Header().Set("Content-Type", prometheusContentType)
		io.WriteString(w, buf.String())
	})
}
