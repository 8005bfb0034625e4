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

package config

import (
	"os"
	"path/filepath"

	"github.com/algorand/go-arbiter/util/codecs"
)

// Local holds the per-node-instance configuration settings for the arbiter.
// !!! WARNING !!!
//
// These versioned struct tags need to be maintained CAREFULLY and treated
// like UNIVERSAL CONSTANTS - they should not be modified once committed.
//
// New fields may be added to the Local struct, along with a version tag
// denoting a new version.
//
// !!! WARNING !!!
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new
	// This is specifically important whenever we decide to change the default value
	// for an existing parameter. This field tag must be updated any time we add a new version.
	Version uint32 `version[0]:"0" version[1]:"1" version[2]:"2" version[3]:"3"`

	// Archival nodes retain a queryable copy of every decided proposal in a
	// separate key-value archive, in addition to the journal. Non-archival
	// nodes rely on the journal alone.
	Archival bool `version[0]:"false"`

	// BaseLoggerDebugLevel specifies the logging level for arbiterd (node.log). The levels range from 0 (critical error / silent) to 5 (debug / verbose). The default value is 4 ('Info' - fairly verbose).
	BaseLoggerDebugLevel uint32 `version[0]:"1" version[1]:"4"`

	// EndpointAddress configures the address the node listens to for REST API calls. Specify an IP and port or just port. For example, 127.0.0.1:0 will listen on a random port on the localhost (preferring 8080).
	EndpointAddress string `version[0]:"127.0.0.1:0"`

	// RestReadTimeoutSeconds is passed to the API servers rest http.Server implementation.
	RestReadTimeoutSeconds int `version[1]:"15"`

	// RestWriteTimeoutSeconds is passed to the API servers rest http.Server implementation.
	RestWriteTimeoutSeconds int `version[1]:"120"`

	// RestConnectionsSoftLimit is the maximum number of active requests the
	// API server will accept before returning http code 429 Too Many Requests.
	RestConnectionsSoftLimit uint64 `version[2]:"1024"`

	// RestConnectionsHardLimit is the maximum number of client connections
	// the API server will accept before closing new ones.
	RestConnectionsHardLimit uint64 `version[2]:"2048"`

	// ReservedFDs is used to make sure the arbiterd process does not run out
	// of file descriptors. ReservedFDs are meant to leave room for
	// short-lived FDs like SQLite files and snapshot uploads.
	ReservedFDs uint64 `version[1]:"256"`

	// LogSizeLimit is the log file size limit in bytes. When set to 0 logs will be written to stdout.
	LogSizeLimit uint64 `version[0]:"1073741824"`

	// LogArchiveName text/template for creating log archive filename.
	// Available template vars:
	// Time at start of log: {{.Year}} {{.Month}} {{.Day}} {{.Hour}} {{.Minute}} {{.Second}}
	// Time at end of log: {{.EndYear}} {{.EndMonth}} {{.EndDay}} {{.EndHour}} {{.EndMinute}} {{.EndSecond}}
	//
	// If the filename ends with .gz it will be compressed.
	//
	// default: "node.archive.log" (no rotation, clobbers previous archive)
	LogArchiveName string `version[0]:"node.archive.log"`

	// LogArchiveMaxAge will be parsed by time.ParseDuration().
	// Valid units are 's' seconds, 'm' minutes, 'h' hours
	LogArchiveMaxAge string `version[2]:""`

	// LogFileDir is an optional directory to store the log, node.log
	// If not specified, the node will use the data directory.
	// The -o command line option can be used to override this output location.
	LogFileDir string `version[3]:""`

	// DeadlockDetection controls enabling or disabling deadlock detection.
	// negative (-1) to disable, positive (1) to enable, 0 for default.
	DeadlockDetection int `version[1]:"0"`

	// DeadlockDetectionThreshold is the threshold used for deadlock detection, specified in seconds.
	DeadlockDetectionThreshold int `version[2]:"30"`

	// EnableProfiler enables the go pprof endpoints, should be false if
	// the arbiterd api will be exposed to untrusted individuals
	EnableProfiler bool `version[0]:"false"`

	// EnableMetricReporting determines if the metrics service for a node is to be enabled. This setting controls metrics being exposed over the /metrics endpoint.
	EnableMetricReporting bool `version[0]:"false"`

	// EnableRuntimeMetrics exposes Go runtime metrics in /metrics.
	EnableRuntimeMetrics bool `version[2]:"false"`

	// EnableDecisionStats specifies whether or not to emit the DecisionRoundMetrics telemetry metric.
	EnableDecisionStats bool `version[3]:"false"`

	// TelemetryToLog configures whether to record messages to node.log that are normally only sent to remote event monitoring.
	TelemetryToLog bool `version[0]:"true"`

	// DisableAPIAuth turns off authentication for public (non-admin) API endpoints.
	DisableAPIAuth bool `version[3]:"false"`

	// EnableSignedSubmissions requires mutating API submissions to carry an
	// ed25519 signature from the calling agent, verified against the
	// identity digest before the operation runs.
	EnableSignedSubmissions bool `version[3]:"false"`

	// DecisionWindowSeconds is how long a proposal accepts predictions once
	// the node observes it, in seconds. The window is only enforced when the
	// running params version sets EnforceDecisionDeadline; 0 disables it.
	DecisionWindowSeconds uint64 `version[3]:"0"`

	// JournalSyncWrites makes every journal append issue a synchronous
	// commit. Turning it off trades durability on power loss for throughput.
	JournalSyncWrites bool `version[3]:"true"`

	// SnapshotInterval is the number of journal entries between automatic
	// state snapshots. 0 disables automatic snapshots.
	SnapshotInterval uint64 `version[3]:"0"`

	// SnapshotS3Bucket, when set, uploads every produced snapshot to the
	// named S3 bucket. Credentials are taken from the environment.
	SnapshotS3Bucket string `version[3]:""`

	// ParamsVersionOverride forces the node to run the named params version
	// instead of the current default. Used to exercise unreleased params.
	ParamsVersionOverride string `version[3]:""`
}

// SaveToDisk writes the non-default Local settings into a root/ConfigFilename file
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveAllToDisk writes the all Local settings into a root/ConfigFilename file
func (cfg Local) SaveAllToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	prettyPrint := true
	return codecs.SaveObjectToFile(filename, cfg, prettyPrint)
}

// SaveToFile saves the config to a specific filename, allowing overriding the default name
func (cfg Local) SaveToFile(filename string) error {
	var alwaysInclude []string
	alwaysInclude = append(alwaysInclude, "Version")
	return codecs.SaveNonDefaultValuesToFile(filename, cfg, defaultLocal, alwaysInclude, true)
}

// ResolveLogPaths will return the paths to the log and archive files
// It uses the LogFileDir if available, otherwise the rootDir
func (cfg *Local) ResolveLogPaths(rootDir string) (liveLog, archive string) {
	// the default locations of log and archive are root
	liveLog = filepath.Join(rootDir, "node.log")
	archive = filepath.Join(rootDir, cfg.LogArchiveName)
	// if LogFileDir is set, use it instead
	if cfg.LogFileDir != "" {
		liveLog = filepath.Join(cfg.LogFileDir, "node.log")
		archive = filepath.Join(cfg.LogFileDir, cfg.LogArchiveName)
	}
	return liveLog, archive
}

// AdjustConnectionLimits reduces REST connection limits in order to stay
// under the maximum allowed number of file descriptors.
// It returns true if any limit is updated.
func (cfg *Local) AdjustConnectionLimits(requiredFDs, maxFDs uint64) bool {
	if maxFDs >= requiredFDs {
		return false
	}
	const reservedRESTConns = 10
	diff := requiredFDs - maxFDs

	if cfg.RestConnectionsHardLimit <= diff+reservedRESTConns {
		restDelta := diff + reservedRESTConns - cfg.RestConnectionsHardLimit
		cfg.RestConnectionsHardLimit = reservedRESTConns
		if cfg.ReservedFDs >= restDelta {
			cfg.ReservedFDs -= restDelta
		} else {
			cfg.ReservedFDs = 0
		}
	} else {
		cfg.RestConnectionsHardLimit -= diff
	}

	if cfg.RestConnectionsSoftLimit > cfg.RestConnectionsHardLimit {
		cfg.RestConnectionsSoftLimit = cfg.RestConnectionsHardLimit
	}

	return true
}
