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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/daemon/arbiterd"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/logging/telemetryspec"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/util/tokens"
	"github.com/gofrs/flock"

	"github.com/algorand/go-deadlock"
)

var dataDirectory = flag.String("d", "", "Root arbiter daemon data path")
var versionCheck = flag.Bool("v", false, "Display and write current build version and exit")
var branchCheck = flag.Bool("b", false, "Display the git branch behind the build")
var channelCheck = flag.Bool("c", false, "Display and release channel behind the build")
var initAndExit = flag.Bool("x", false, "Initialize the data directory and exit")
var logToStdout = flag.Bool("o", false, "Write to stdout instead of node.log by overriding config.LogSizeLimit to 0")
var listenIP = flag.String("l", "", "Override config.EndpointAddress (REST listening address) with ip:port")
var sessionGUID = flag.String("s", "", "Telemetry Session GUID to use")
var telemetryOverride = flag.String("t", "", `Override telemetry setting if supported (Use "true", "false", "0" or "1")`)
var seed = flag.String("seed", "", "input to math/rand.Seed()")

func main() {
	flag.Parse()
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	dataDir := resolveDataDir()
	absolutePath, absPathErr := filepath.Abs(dataDir)

	if *seed != "" {
		seedVal, err := strconv.ParseInt(*seed, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad seed %#v: %s\n", *seed, err)
			return 1
		}
		rand.Seed(seedVal)
	} else {
		rand.Seed(time.Now().UnixNano())
	}

	if *versionCheck {
		fmt.Println(config.FormatVersionAndLicense())
		return 0
	}

	// -b will print only the git branch and then exit
	if *branchCheck {
		fmt.Println(config.Branch)
		return 0
	}

	// -c will print only the release channel and then exit
	if *channelCheck {
		fmt.Println(config.Channel)
		return 0
	}

	// Don't fallback anymore - if not specified, we want to panic to force us to update our tooling and/or processes
	if len(dataDir) == 0 {
		fmt.Fprintln(os.Stderr, "Data directory not specified.  Please use -d or set $ARBITER_DATA in your environment.")
		return 1
	}

	if absPathErr != nil {
		fmt.Fprintf(os.Stderr, "Can't convert data directory's path to absolute, %v\n", dataDir)
		return 1
	}

	// If data directory doesn't exist, we can't run. Don't bother trying.
	if _, err := os.Stat(absolutePath); err != nil {
		fmt.Fprintf(os.Stderr, "Data directory %s does not appear to be valid\n", dataDir)
		return 1
	}

	log := logging.Base()
	// before doing anything further, attempt to acquire the arbiterd lock
	// to ensure this is the only node running against this data directory
	lockPath := filepath.Join(absolutePath, "arbiterd.lock")
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unexpected failure in establishing arbiterd.lock: %s \n", err.Error())
		return 1
	}
	if !locked {
		fmt.Fprintln(os.Stderr, "failed to lock arbiterd.lock; is an instance of arbiterd already running in this data directory?")
		return 1
	}
	defer fileLock.Unlock()

	cfg, err := config.LoadConfigFromDisk(absolutePath)
	if err != nil && !os.IsNotExist(err) {
		// log is not setup yet, this will log to stderr
		log.Fatalf("Cannot load config: %v", err)
	}

	// log is not setup yet
	fmt.Printf("Config loaded from %s\n", absolutePath)
	fmt.Println("Configuration after loading/defaults merge: ")
	err = json.NewEncoder(os.Stdout).Encode(cfg)
	if err != nil {
		fmt.Println("Error encoding config: ", err)
	}

	// the telemetry chain id tracks the params version the node will run
	paramsID := cfg.ParamsVersionOverride
	if paramsID == "" {
		paramsID = string(protocol.ParamsCurrentVersion)
	}

	// Enable telemetry hook in daemon to send logs to cloud
	// If ARBITERTEST env variable is set, telemetry is disabled - allows disabling telemetry for tests
	isTest := os.Getenv("ARBITERTEST") != ""
	if !isTest {
		telemetryConfig, err1 := logging.EnsureTelemetryConfig(&dataDir, paramsID)
		if err1 != nil {
			if os.IsPermission(err1) {
				fmt.Fprintf(os.Stderr, "permission error on accessing telemetry config: %v", err1)
				return 1
			}
			fmt.Fprintln(os.Stdout, "error loading telemetry config", err1)
		} else {
			fmt.Fprintf(os.Stdout, "Telemetry configured from '%s'\n", telemetryConfig.FilePath)

			telemetryConfig.SendToLog = telemetryConfig.SendToLog || cfg.TelemetryToLog

			// Apply telemetry override.
			telemetryConfig.Enable = logging.TelemetryOverride(*telemetryOverride, &telemetryConfig)

			if telemetryConfig.Enable || telemetryConfig.SendToLog {
				// If session GUID specified, use it.
				if *sessionGUID != "" {
					if len(*sessionGUID) == 36 {
						telemetryConfig.SessionGUID = *sessionGUID
					}
				}
				err1 = log.EnableTelemetry(telemetryConfig)
				if err1 != nil {
					fmt.Fprintln(os.Stdout, "error creating telemetry hook", err1)
				}
			}
		}
	}

	s := arbiterd.Server{
		RootPath: absolutePath,
	}

	if !cfg.DisableAPIAuth {
		// Generate a REST API token if one was not provided
		apiToken, wroteNewToken, err2 := tokens.ValidateOrGenerateAPIToken(s.RootPath, tokens.ArbiterdTokenFilename)

		if err2 != nil {
			log.Fatalf("API token error: %v", err2)
		}

		if wroteNewToken {
			fmt.Printf("No REST API Token found. Generated token: %s\n", apiToken)
		}
	} else {
		fmt.Printf("Public (non-admin) API authentication disabled. %s not generated\n", tokens.ArbiterdTokenFilename)
	}

	// Generate a admin REST API token if one was not provided
	adminAPIToken, wroteNewToken, err := tokens.ValidateOrGenerateAPIToken(s.RootPath, tokens.ArbiterdAdminTokenFilename)

	if err != nil {
		log.Fatalf("Admin API token error: %v", err)
	}

	if wroteNewToken {
		fmt.Printf("No Admin REST API Token found. Generated token: %s\n", adminAPIToken)
	}

	// Allow overriding default listening address
	if *listenIP != "" {
		cfg.EndpointAddress = *listenIP
	}

	// Apply the default deadlock setting before starting the server.
	// It will potentially override it based on the config file DeadlockDetection setting
	if strings.ToLower(config.DefaultDeadlock) == "enable" {
		deadlock.Opts.Disable = false
	} else if strings.ToLower(config.DefaultDeadlock) == "disable" {
		deadlock.Opts.Disable = true
	} else if config.DefaultDeadlock != "" {
		log.Fatalf("DefaultDeadlock is somehow not set to an expected value (enable / disable): %s", config.DefaultDeadlock)
	}

	if logToStdout != nil && *logToStdout {
		cfg.LogSizeLimit = 0
	}

	err = s.Initialize(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Error(err)
		return 1
	}

	if *initAndExit {
		return 0
	}

	deadlockState := "enabled"
	if deadlock.Opts.Disable {
		deadlockState = "disabled"
	}
	fmt.Fprintf(os.Stdout, "Deadlock detection is set to: %s (Default state is '%s')\n", deadlockState, config.DefaultDeadlock)

	if log.GetTelemetryEnabled() {
		currentVersion := config.GetCurrentVersion()
		var overrides []telemetryspec.NameValue
		for name, val := range config.GetNonDefaultConfigValues(cfg, startupConfigCheckFields) {
			overrides = append(overrides, telemetryspec.NameValue{Name: name, Value: val})
		}
		startupDetails := telemetryspec.StartupEventDetails{
			Version:      currentVersion.String(),
			CommitHash:   currentVersion.CommitHash,
			Branch:       currentVersion.Branch,
			Channel:      currentVersion.Channel,
			InstanceHash: crypto.Hash([]byte(absolutePath)).String(),
			Overrides:    overrides,
		}

		log.EventWithDetails(telemetryspec.ApplicationState, telemetryspec.StartupEvent, startupDetails)
	}

	s.Start()
	return 0
}

var startupConfigCheckFields = []string{
	"Archival",
	"BaseLoggerDebugLevel",
	"DecisionWindowSeconds",
	"DisableAPIAuth",
	"EnableSignedSubmissions",
	"JournalSyncWrites",
	"ParamsVersionOverride",
	"ReservedFDs",
	"RestConnectionsHardLimit",
	"RestConnectionsSoftLimit",
	"SnapshotInterval",
}

func resolveDataDir() string {
	// Figure out what data directory to tell arbiterd to use.
	// If not specified on cmdline with '-d', look for default in environment.
	var dir string
	if dataDirectory == nil || *dataDirectory == "" {
		dir = os.Getenv("ARBITER_DATA")
	} else {
		dir = *dataDirectory
	}
	return dir
}
