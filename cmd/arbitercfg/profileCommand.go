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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/algorand/go-arbiter/cmd/util/datadir"
	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/util/codecs"
)

// profileConfigUpdater updates the provided config for non-defaults in a given profile
type profileConfigUpdater struct {
	updateFunc  func(cfg config.Local) config.Local
	description string
}

// archivalConfigUpdater alters config values to retain the full decision history
var archivalConfigUpdater = profileConfigUpdater{
	description: "Retain the complete decision journal and write periodic snapshots.",
	updateFunc: func(cfg config.Local) config.Local {
		cfg.Archival = true
		cfg.SnapshotInterval = 1024
		return cfg
	},
}

// developmentConfigUpdater alters config values to set up a local development node
var developmentConfigUpdater = profileConfigUpdater{
	description: "Features useful for building against a local arbiter node.",
	updateFunc: func(cfg config.Local) config.Local {
		cfg.DisableAPIAuth = true
		cfg.EnableProfiler = true
		cfg.BaseLoggerDebugLevel = 5
		cfg.EnableRuntimeMetrics = true
		return cfg
	},
}

// auditorConfigUpdater alters config values for deployments that verify decisions
var auditorConfigUpdater = profileConfigUpdater{
	description: "Strict verification posture for audit deployments.",
	updateFunc: func(cfg config.Local) config.Local {
		cfg.EnableSignedSubmissions = true
		cfg.Archival = true
		cfg.EnableMetricReporting = true
		return cfg
	},
}

var (
	// profileNames are the supported pre-configurations of config values
	profileNames = map[string]profileConfigUpdater{
		"archival":    archivalConfigUpdater,
		"development": developmentConfigUpdater,
		"auditor":     auditorConfigUpdater,
	}
	forceUpdate bool
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(setProfileCmd)
	setProfileCmd.Flags().BoolVarP(&forceUpdate, "yes", "y", false, "Force updates to be written")
	profileCmd.AddCommand(listProfileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manipulate config profiles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

var listProfileCmd = &cobra.Command{
	Use:   "list",
	Short: "List config profiles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		longest := 0
		for key := range profileNames {
			if len(key) > longest {
				longest = len(key)
			}
		}

		for key, value := range profileNames {
			reportInfof("%-*s  %s", longest, key, value.description)
		}
	},
}

var setProfileCmd = &cobra.Command{
	Use:   "set",
	Short: "Set preconfigured config defaults",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		datadir.OnDataDirs(func(dataDir string) {
			cfg, err := getConfigForArg(args[0])
			if err != nil {
				reportErrorf("%v", err)
			}
			file := filepath.Join(dataDir, config.ConfigFilename)
			if _, statErr := os.Stat(file); !forceUpdate && statErr == nil {
				fmt.Printf("A config.json file already exists for this data directory. Would you like to overwrite it? (Y/n)")
				reader := bufio.NewReader(os.Stdin)
				resp, readErr := reader.ReadString('\n')
				resp = strings.TrimSpace(resp)
				if readErr != nil {
					reportErrorf("Failed to read response: %v", readErr)
				}
				if strings.ToLower(resp) == "n" {
					reportInfof("Exiting without overwriting existing config.")
					return
				}
			}
			err = codecs.SaveNonDefaultValuesToFile(file, cfg, config.GetDefaultLocal(), nil, true)
			if err != nil {
				reportErrorf("Error saving updated config file '%s' - %s", file, err)
			}
		})
	},
}

// getConfigForArg returns a Local config with options updated according to the
// profile named by configType.
func getConfigForArg(configType string) (config.Local, error) {
	cfg := config.GetDefaultLocal()
	if updater, ok := profileNames[configType]; ok {
		return updater.updateFunc(cfg), nil
	}

	names := make([]string, 0, len(profileNames))
	for name := range profileNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return config.Local{}, fmt.Errorf("invalid profile type %v, valid profiles: %s", configType, strings.Join(names, ", "))
}
