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
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/client"
	"github.com/algorand/go-arbiter/daemon/arbiterd/api/spec/common"
	"github.com/algorand/go-arbiter/util/tokens"
)

var dataDirs []string

var verboseVersionPrint bool

var versionCheck bool

// netFilename is written by arbiterd next to its pid file and holds the
// REST listening address.
const netFilename = "arbiterd.net"

// validateNoPosArgsFn is a reusable cobra positional argument validation function
// for generating proper error messages when commands see unexpected arguments when they expect no args.
// We don't use cobra.NoArgs directly, in case we want to customize behavior later.
var validateNoPosArgsFn = cobra.NoArgs

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&verboseVersionPrint, "verbose", "v", false, "Print all version info available")
	rootCmd.Flags().BoolVarP(&versionCheck, "version", "v", false, "Display and write current build version and exit")
	rootCmd.AddCommand(licenseCmd)
	rootCmd.AddCommand(reportCmd)

	// agent.go
	rootCmd.AddCommand(agentCmd)

	// proposal.go
	rootCmd.AddCommand(proposalCmd)
	rootCmd.AddCommand(predictCmd)

	// node.go
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(snapshotCmd)

	// key.go
	rootCmd.AddCommand(keyCmd)

	// bench.go
	rootCmd.AddCommand(benchCmd)

	// Config
	defaultDataDirValue := []string{""}
	rootCmd.PersistentFlags().StringArrayVarP(&dataDirs, "datadir", "d", defaultDataDirValue, "Data directory for the node")
}

var rootCmd = &cobra.Command{
	Use:   "arbiter",
	Short: "CLI for interacting with the arbiter decision protocol",
	Long:  `Arbiter is the CLI for interacting with a running arbiterd instance. The binary 'arbiter' is installed alongside the arbiterd binary and is considered an integral part of the complete installation. The binaries should be used in tandem - you should not try to use a version of arbiter with a different version of arbiterd.`,
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		if versionCheck {
			fmt.Println(config.FormatVersionAndLicense())
			return
		}
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

// Write commands to exercise all subcommands with `-h`
// Can be used to check that there are no conflicts in arguments between inner and outer commands.
func runAllHelps(c *cobra.Command, out io.Writer) (err error) {
	if c.Runnable() {
		cmd := c.CommandPath() + " -h\n"
		_, err = out.Write([]byte(cmd))
		if err != nil {
			return
		}
	}
	for _, sub := range c.Commands() {
		err = runAllHelps(sub, out)
		if err != nil {
			return
		}
	}
	return
}

func main() {
	// Hidden command to generate docs in a given directory
	// arbiter generate-docs [path]
	if len(os.Args) == 3 && os.Args[1] == "generate-docs" {
		err := doc.GenMarkdownTree(rootCmd, os.Args[2])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		os.Exit(0)
	} else if len(os.Args) == 2 && os.Args[1] == "helptest" {
		// test that subcommands don't have arg conflicts:
		// arbiter helptest | bash -x -e
		runAllHelps(rootCmd, os.Stdout)
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "The current version of the Arbiter daemon (arbiterd)",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		onDataDirs(func(dataDir string) {
			response, err := ensureArbiterClient(dataDir).Versions()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			if !verboseVersionPrint {
				fmt.Println(response.Versions)
				return
			}
			fmt.Printf("Version: %v \n", response.Versions)
			if (response.Build != common.BuildVersion{}) {
				fmt.Printf("Build: %d.%d.%d.%s [%s] (commit #%s)\n", response.Build.Major, response.Build.Minor, response.Build.BuildNumber, response.Build.Channel, response.Build.Branch, response.Build.CommitHash)
			}
		})
	},
}

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Display license information",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetLicenseInfo())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "",
	Long:  "Produces report helpful for debugging.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.FormatVersionAndLicense())
		fmt.Println()
		data, err := exec.Command("uname", "-a").CombinedOutput()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		onDataDirs(getStatus)
	},
}

func resolveDataDir() string {
	// Figure out what data directory to tell arbiterd to use.
	// If not specified on cmdline with '-d', look for default in environment.
	var dir string
	if len(dataDirs) > 0 {
		dir = dataDirs[0]
	}
	if dir == "" {
		dir = os.Getenv("ARBITER_DATA")
	}
	return dir
}

func ensureFirstDataDir() string {
	// Get the target data directory to work against,
	// then handle the scenario where no data directory is provided.
	dir := resolveDataDir()
	if dir == "" {
		reportErrorln(errorNoDataDirectory)
	}
	return dir
}

func ensureSingleDataDir() string {
	if len(dataDirs) > 1 {
		reportErrorln(errorOneDataDirSupported)
	}
	return ensureFirstDataDir()
}

func getDataDirs() (dirs []string) {
	if len(dataDirs) == 0 {
		reportErrorln(errorNoDataDirectory)
	}
	dirs = append(dirs, ensureFirstDataDir())
	dirs = append(dirs, dataDirs[1:]...)
	return
}

func onDataDirs(action func(dataDir string)) {
	dirs := getDataDirs()
	report := len(dirs) > 1

	for _, dir := range dirs {
		if report {
			reportInfof(infoDataDir, dir)
		}
		action(dir)
	}
}

// readListeningAddress returns the REST address a running arbiterd wrote
// into its net file.
func readListeningAddress(dataDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, netFilename))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func makeArbiterClient(dataDir string, tokenFilename string) (client.RestClient, error) {
	addr, err := readListeningAddress(dataDir)
	if err != nil {
		return client.RestClient{}, err
	}
	// A missing token file is allowed; the node may be running with
	// DisableAPIAuth and will reject us with a 401 otherwise.
	token, err := tokens.GetAndValidateAPIToken(dataDir, tokenFilename)
	if err != nil {
		token = ""
	}
	serverURL := url.URL{Scheme: "http", Host: addr}
	return client.MakeRestClient(serverURL, token), nil
}

func ensureArbiterClient(dataDir string) client.RestClient {
	c, err := makeArbiterClient(dataDir, tokens.ArbiterdTokenFilename)
	if err != nil {
		reportErrorf(errorNodeStatus, err)
	}
	return c
}

// ensureAdminClient builds a client carrying the admin API token, for the
// endpoints that demand it.
func ensureAdminClient(dataDir string) client.RestClient {
	c, err := makeArbiterClient(dataDir, tokens.ArbiterdAdminTokenFilename)
	if err != nil {
		reportErrorf(errorNodeStatus, err)
	}
	return c
}

func reportInfoln(args ...interface{}) {
	fmt.Println(args...)
}

func reportInfof(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func reportWarnf(format string, args ...interface{}) {
	fmt.Printf("Warning: "+format+"\n", args...)
}

func reportErrorln(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
