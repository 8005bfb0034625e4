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

package arbiterd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	_ "net/http/pprof" // net/http/pprof is for registering the pprof URLs with the web server, so http://localhost:8080/debug/pprof/ works.
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/labstack/echo/v4"

	"github.com/algorand/go-arbiter/config"
	apiServer "github.com/algorand/go-arbiter/daemon/arbiterd/api/server"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/logging/telemetryspec"
	"github.com/algorand/go-arbiter/network/limitlistener"
	"github.com/algorand/go-arbiter/node"
	"github.com/algorand/go-arbiter/util"
	"github.com/algorand/go-arbiter/util/metrics"
	"github.com/algorand/go-arbiter/util/tokens"
)

var server http.Server

// maxHeaderBytes must have enough room to hold an api token
const maxHeaderBytes = 4096

// Server represents an instance of the REST API HTTP server
type Server struct {
	RootPath             string
	pidFile              string
	netFile              string
	log                  logging.Logger
	node                 *node.ArbiterNode
	metricCollector      *metrics.MetricService
	metricServiceStarted bool
	stopping             chan struct{}
}

// Initialize creates a Node instance with applicable network services
func (s *Server) Initialize(cfg config.Local) error {
	// set up node
	s.log = logging.Base()

	liveLog, archive := cfg.ResolveLogPaths(s.RootPath)

	var maxLogAge time.Duration
	var err error
	if cfg.LogArchiveMaxAge != "" {
		maxLogAge, err = time.ParseDuration(cfg.LogArchiveMaxAge)
		if err != nil {
			s.log.Fatalf("invalid config LogArchiveMaxAge: %s", err)
			maxLogAge = 0
		}
	}

	var logWriter io.Writer
	if cfg.LogSizeLimit > 0 {
		fmt.Println("Logging to: ", liveLog)
		logWriter = logging.MakeCyclicFileWriter(liveLog, archive, cfg.LogSizeLimit, maxLogAge)
	} else {
		fmt.Println("Logging to: stdout")
		logWriter = os.Stdout
	}
	s.log.SetOutput(logWriter)
	s.log.SetJSONFormatter()
	s.log.SetLevel(logging.Level(cfg.BaseLoggerDebugLevel))
	setupDeadlockLogger()

	// Check some config parameters.
	if cfg.RestConnectionsSoftLimit > cfg.RestConnectionsHardLimit {
		s.log.Warnf(
			"RestConnectionsSoftLimit %d exceeds RestConnectionsHardLimit %d",
			cfg.RestConnectionsSoftLimit, cfg.RestConnectionsHardLimit)
		cfg.RestConnectionsSoftLimit = cfg.RestConnectionsHardLimit
	}

	// Set large enough soft file descriptors limit.
	var ot basics.OverflowTracker
	fdRequired := ot.Add(cfg.ReservedFDs, cfg.RestConnectionsHardLimit)
	if ot.Overflowed {
		return errors.New(
			"Initialize() overflowed when adding up ReservedFDs and RestConnectionsHardLimit; decrease them")
	}
	_, hard, fdErr := util.GetFdLimits()
	if fdErr != nil {
		s.log.Errorf("Failed to get RLIMIT_NOFILE values: %s", fdErr.Error())
	} else {
		maxFDs := fdRequired
		if fdRequired > hard {
			// claim as many descriptors as possible
			maxFDs = hard
			// but try to keep cfg.ReservedFDs untouched by decreasing other limits
			if cfg.AdjustConnectionLimits(fdRequired, hard) {
				s.log.Warnf(
					"Updated connection limits: RestConnectionsSoftLimit=%d, RestConnectionsHardLimit=%d",
					cfg.RestConnectionsSoftLimit,
					cfg.RestConnectionsHardLimit,
				)
			}
		}
		fdErr = util.RaiseFdSoftLimit(maxFDs)
		if fdErr != nil {
			// do not fail but log the error
			s.log.Errorf("Failed to set a new RLIMIT_NOFILE value to %d (max %d): %s", fdRequired, hard, fdErr.Error())
		}
	}

	// configure the deadlock detector library
	switch {
	case cfg.DeadlockDetection > 0:
		// Explicitly enabled deadlock detection
		deadlock.Opts.Disable = false

	case cfg.DeadlockDetection < 0:
		// Explicitly disabled deadlock detection
		deadlock.Opts.Disable = true

	case cfg.DeadlockDetection == 0:
		// Default setting - host app should configure this
		// If host doesn't, the default is Disable = false (so, enabled)
	}
	if !deadlock.Opts.Disable {
		deadlock.Opts.DeadlockTimeout = time.Second * time.Duration(cfg.DeadlockDetectionThreshold)
	}

	// if we have the telemetry enabled, we want to use its session id as part of the
	// collected metrics decorations.
	s.log.Infoln("++++++++++++++++++++++++++++++++++++++++")
	s.log.Infoln("Logging Starting")
	if s.log.GetTelemetryUploadingEnabled() {
		// May or may not be logging to node.log
		s.log.Infof("Telemetry Enabled: %s\n", s.log.GetTelemetryHostName())
		s.log.Infof("Session: %s\n", s.log.GetTelemetrySession())
	} else {
		// May or may not be logging to node.log
		s.log.Infoln("Telemetry Disabled")
	}
	s.log.Infoln("++++++++++++++++++++++++++++++++++++++++")

	metricLabels := map[string]string{}
	if s.log.GetTelemetryEnabled() {
		metricLabels["telemetry_session"] = s.log.GetTelemetrySession()
		if h := s.log.GetTelemetryHostName(); h != "" {
			metricLabels["telemetry_host"] = h
		}
		if i := s.log.GetInstanceName(); i != "" {
			metricLabels["telemetry_instance"] = i
		}
	}
	s.metricCollector = metrics.MakeMetricService(
		&metrics.ServiceConfig{
			Labels: metricLabels,
		})

	var currentVersion = config.GetCurrentVersion()
	var buildInfoGauge = metrics.MakeGauge(metrics.MetricName{Name: "arbiter_build_info", Description: "Arbiter build info"})
	buildInfoGauge.SetLabels(1, map[string]string{
		"version": currentVersion.String(),
		"goarch":  runtime.GOARCH,
		"goos":    runtime.GOOS,
		"commit":  currentVersion.CommitHash,
		"channel": currentVersion.Channel,
	})

	s.node, err = node.MakeArbiterNode(s.log, s.RootPath, cfg)
	if os.IsNotExist(err) {
		return fmt.Errorf("node has not been installed: %s", err)
	}
	if err != nil {
		return fmt.Errorf("couldn't initialize the node: %s", err)
	}

	// When a caller to logging uses Fatal, we want to stop the node before os.Exit is called.
	logging.RegisterExitHandler(s.Stop)

	return nil
}

// helper handles startup of tcp listener
func makeListener(addr string) (net.Listener, error) {
	var listener net.Listener
	var err error
	if (addr == "127.0.0.1:0") || (addr == ":0") {
		// if port 0 is provided, prefer port 8080 first, then fall back to port 0
		preferredAddr := strings.Replace(addr, ":0", ":8080", -1)
		listener, err = net.Listen("tcp", preferredAddr)
		if err == nil {
			return listener, err
		}
	}
	// err was not nil or :0 was not provided, fall back to originally passed addr
	return net.Listen("tcp", addr)
}

// helper to get port from an address
func getPortFromAddress(addr string) (string, error) {
	u, err := url.Parse(addr)
	if err == nil && u.Scheme != "" {
		addr = u.Host
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("Error parsing address: %v", err)
	}
	return port, nil
}

// Start starts the node and then the REST API HTTP server in front of it.
func (s *Server) Start() {
	s.log.Info("Trying to start an arbiter node")
	fmt.Print("Initializing the arbiter node... ")
	s.node.Start()
	s.log.Info("Successfully started an arbiter node.")
	fmt.Println("Success!")

	cfg := s.node.Config()

	if cfg.EnableRuntimeMetrics {
		metrics.DefaultRegistry().Register(metrics.NewRuntimeMetrics())
	}

	if cfg.EnableMetricReporting {
		if err := s.metricCollector.Start(context.Background()); err != nil {
			// log this error
			s.log.Infof("Unable to start metric collection service : %v", err)
		}
		s.metricServiceStarted = true
	}

	var apiToken string
	var err error
	fmt.Printf("API authentication disabled: %v\n", cfg.DisableAPIAuth)
	if !cfg.DisableAPIAuth {
		apiToken, err = tokens.GetAndValidateAPIToken(s.RootPath, tokens.ArbiterdTokenFilename)
		if err != nil {
			fmt.Printf("APIToken error: %v\n", err)
			os.Exit(1)
		}
	}

	adminAPIToken, err := tokens.GetAndValidateAPIToken(s.RootPath, tokens.ArbiterdAdminTokenFilename)
	if err != nil {
		fmt.Printf("APIToken error: %v\n", err)
		os.Exit(1)
	}

	s.stopping = make(chan struct{})

	addr := cfg.EndpointAddress
	if addr == "" {
		addr = ":http"
	}

	listener, err := makeListener(addr)
	if err != nil {
		fmt.Printf("Could not start node: %v\n", err)
		os.Exit(1)
	}
	listener = limitlistener.RejectingLimitListener(
		listener, cfg.RestConnectionsHardLimit, s.log)

	addr = listener.Addr().String()
	server = http.Server{
		Addr:           addr,
		ReadTimeout:    time.Duration(cfg.RestReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.RestWriteTimeoutSeconds) * time.Second,
		MaxHeaderBytes: maxHeaderBytes,
	}

	e := apiServer.NewRouter(
		s.log, s.node, s.stopping, apiToken, adminAPIToken, listener,
		cfg.RestConnectionsSoftLimit)

	if cfg.EnableMetricReporting {
		// The scrape endpoint rides the REST listener; scrapers do not
		// carry API tokens, so it stays outside the authenticated groups.
		e.GET("/metrics", echo.WrapHandler(s.metricCollector.Handler()))
	}

	// Set up files for our PID and our listening address
	// before beginning to listen to prevent anyone watching
	// the data directory from racing with the listener.
	s.pidFile = filepath.Join(s.RootPath, "arbiterd.pid")
	s.netFile = filepath.Join(s.RootPath, "arbiterd.net")
	err = os.WriteFile(s.pidFile, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
	if err != nil {
		fmt.Printf("pidfile error: %v\n", err)
		os.Exit(1)
	}
	err = os.WriteFile(s.netFile, []byte(fmt.Sprintf("%s\n", addr)), 0644)
	if err != nil {
		fmt.Printf("netfile error: %v\n", err)
		os.Exit(1)
	}

	errChan := make(chan error, 1)
	go func() {
		err := e.StartServer(&server)
		errChan <- err
	}()

	if s.log.GetTelemetryEnabled() {
		// Send a heartbeat event every 10 minutes as a sign of life
		go s.heartbeatLoop()
	}

	// Handle signals cleanly
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	signal.Ignore(syscall.SIGHUP)

	fmt.Printf("Node running and accepting RPC requests over HTTP on port %v. Press Ctrl-C to exit\n", addr)
	select {
	case err := <-errChan:
		if err != nil {
			s.log.Warn(err)
		} else {
			s.log.Info("Node exited successfully")
		}
		s.Stop()
	case sig := <-c:
		fmt.Printf("Exiting on %v\n", sig)
		s.Stop()
		os.Exit(0)
	}
}

// heartbeatInterval is the rate at which the node reports a sign of life.
const heartbeatInterval = 10 * time.Minute

// heartbeatLoop periodically reports the node's operation counters and
// registered metrics until the server begins shutting down.
func (s *Server) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	sendHeartbeat := func() {
		var details telemetryspec.HeartbeatEventDetails
		status, err := s.node.Status()
		if err == nil {
			details.Info.AgentCount = status.RegisteredAgents
			details.Info.ProposalCount = status.Proposals
			details.Info.DecidedCount = status.DecidedProposals
			details.Info.RecordedCount = status.RecordedProposals
		}
		values := make(map[string]float64)
		metrics.DefaultRegistry().AddMetrics(values)
		details.Metrics = values

		s.log.EventWithDetails(telemetryspec.ApplicationState, telemetryspec.HeartbeatEvent, details)
	}

	sendHeartbeat()
	for {
		select {
		case <-ticker.C:
			sendHeartbeat()
		case <-s.stopping:
			return
		}
	}
}

// Stop initiates a graceful shutdown of the node by shutting down the network server.
func (s *Server) Stop() {
	// close the s.stopping, which would signal the rest api router that any pending commands
	// should be aborted.
	close(s.stopping)

	// Attempt to log a shutdown event before we exit...
	s.log.Event(telemetryspec.ApplicationState, telemetryspec.ShutdownEvent)

	s.node.Stop()

	err := server.Shutdown(context.Background())
	if err != nil {
		s.log.Error(err)
	}

	if s.metricServiceStarted {
		if err := s.metricCollector.Shutdown(); err != nil {
			// log this error
			s.log.Infof("Unable to shutdown metric collection service : %v", err)
		}
		s.metricServiceStarted = false
	}

	s.log.CloseTelemetry()

	os.Remove(s.pidFile)
	os.Remove(s.netFile)
}
