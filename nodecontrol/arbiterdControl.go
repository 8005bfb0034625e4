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

package nodecontrol

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/algorand/go-arbiter/daemon/arbiterd/api/client"
	"github.com/algorand/go-arbiter/util"
	"github.com/algorand/go-arbiter/util/tokens"
)

// StdErrFilename is the name of the file in <datadir> where stderr will be captured if not redirected to host
const StdErrFilename = "arbiterd-err.log"

// StdOutFilename is the name of the file in <datadir> where stdout will be captured if not redirected
const StdOutFilename = "arbiterd-out.log"

// NodeController provides an object for controlling a specific arbiterd node instance
type NodeController struct {
	arbiterd        string
	arbiterdDataDir string
	arbiterdPidFile string
	arbiterdNetFile string
}

// MakeNodeController creates a NodeController representing an arbiterd instance
func MakeNodeController(binDir, arbiterdDataDir string) NodeController {
	nc := NodeController{
		arbiterd:        filepath.Join(binDir, "arbiterd"),
		arbiterdDataDir: arbiterdDataDir,
	}
	nc.arbiterdPidFile = filepath.Join(arbiterdDataDir, "arbiterd.pid")
	nc.arbiterdNetFile = filepath.Join(arbiterdDataDir, "arbiterd.net")
	return nc
}

// ArbiterdStartArgs are the possible arguments for starting arbiterd
type ArbiterdStartArgs struct {
	ListenIP          string
	RedirectOutput    bool
	TelemetryOverride string
}

// GetDataDir provides the arbiterd data directory
func (nc NodeController) GetDataDir() string {
	return nc.arbiterdDataDir
}

// GetArbiterdPath returns the path to the arbiterd binary the controller launches
func (nc NodeController) GetArbiterdPath() string {
	return nc.arbiterd
}

// GetArbiterdPID returns the PID from the arbiterd.pid file in the node's data directory, or an error
func (nc NodeController) GetArbiterdPID() (pid int64, err error) {
	// Pull out the PID, ignoring newlines
	pidStr, err := util.GetFirstLineFromFile(nc.arbiterdPidFile)
	if err != nil {
		return -1, err
	}
	// Parse as an integer
	pid, err = strconv.ParseInt(pidStr, 10, 32)
	return
}

// GetListeningAddress retrieves the listening address from the arbiterd.net
// file the running node wrote.
func (nc NodeController) GetListeningAddress() (string, error) {
	return util.GetFirstLineFromFile(nc.arbiterdNetFile)
}

// ArbiterdClient builds a REST client for the node the controller watches. A
// missing API token file is not an error; the node may be running with API
// auth disabled.
func (nc NodeController) ArbiterdClient() (arbiterdClient client.RestClient, err error) {
	apiToken, err := tokens.GetAndValidateAPIToken(nc.arbiterdDataDir, tokens.ArbiterdTokenFilename)
	if err != nil {
		apiToken = ""
	}
	addr, err := nc.GetListeningAddress()
	if err != nil {
		return
	}
	serverURL := url.URL{Scheme: "http", Host: addr}
	arbiterdClient = client.MakeRestClient(serverURL, apiToken)
	return
}

func (nc NodeController) arbiterdRunning() (isRunning bool) {
	// If we can reach the node via its REST health endpoint, it's running
	arbiterdClient, err := nc.ArbiterdClient()
	if err == nil {
		err = arbiterdClient.HealthCheck()
		if err == nil {
			return true
		}
	}
	return false
}

// StartArbiterd spins up an arbiterd process and waits for it to begin
func (nc NodeController) StartArbiterd(args ArbiterdStartArgs) (alreadyRunning bool, err error) {
	// If arbiterd is already running, we can't start again
	alreadyRunning = nc.arbiterdRunning()
	if alreadyRunning {
		return alreadyRunning, nil
	}

	arbiterdCmd := nc.buildArbiterdCommand(args)

	var errLogger, outLogger *LaggedStdIo
	if args.RedirectOutput {
		errLogger = NewLaggedStdIo(os.Stderr, "arbiterd")
		outLogger = NewLaggedStdIo(os.Stdout, "arbiterd")
		arbiterdCmd.Stderr = errLogger
		arbiterdCmd.Stdout = outLogger
	} else {
		// Redirect stderr and stdout to files in the data directory
		files := nc.setArbiterdCmdLogFiles(arbiterdCmd)
		defer func() {
			for _, file := range files {
				file.Close()
			}
		}()
	}

	err = arbiterdCmd.Start()
	if err != nil {
		return
	}

	if args.RedirectOutput {
		// update the logger output prefix with the process id.
		linePrefix := fmt.Sprintf("arbiterd(%d)", arbiterdCmd.Process.Pid)
		errLogger.SetLinePrefix(linePrefix)
		outLogger.SetLinePrefix(linePrefix)
	}

	// Watch for an early exit while we wait for the REST endpoint to come up.
	arbiterdExitChan := make(chan error, 1)
	startCompletedChan := make(chan struct{})
	defer close(startCompletedChan)
	go func() {
		waitErr := arbiterdCmd.Wait()
		select {
		case <-startCompletedChan:
			// we've already returned from StartArbiterd; nobody cares about the exit code.
		default:
			arbiterdExitChan <- waitErr
		}
	}()

	for {
		select {
		case waitErr := <-arbiterdExitChan:
			return false, &errArbiterdExitedEarly{innerError: waitErr}
		case <-time.After(time.Millisecond * 100):
			// If we can't talk to the API yet, spin
			arbiterdClient, clientErr := nc.ArbiterdClient()
			if clientErr != nil {
				continue
			}
			// See if the node is responding
			if healthErr := arbiterdClient.HealthCheck(); healthErr == nil {
				return false, nil
			}
		}
	}
}

// StopArbiterd reads the pid file and kills the arbiterd process
func (nc NodeController) StopArbiterd() (err error) {
	// Make sure the data directory is valid
	if absPath, absErr := filepath.Abs(nc.arbiterdDataDir); absErr != nil || !util.IsDir(absPath) {
		return &InvalidDataDirError{dataDir: nc.arbiterdDataDir}
	}
	// Find arbiterd PID
	arbiterdPid, err := nc.GetArbiterdPID()
	if err != nil {
		return &NodeAlreadyStoppedError{dataDir: nc.arbiterdDataDir}
	}
	// Kill arbiterd by PID
	err = killPID(int(arbiterdPid))
	if err != nil {
		return
	}
	os.Remove(nc.arbiterdNetFile)
	os.Remove(nc.arbiterdPidFile)
	return nil
}

// FullStop stops the arbiterd node
func (nc NodeController) FullStop() error {
	return nc.StopArbiterd()
}

func (nc NodeController) buildArbiterdCommand(args ArbiterdStartArgs) *exec.Cmd {
	startArgs := make([]string, 0)
	startArgs = append(startArgs, "-d")
	startArgs = append(startArgs, nc.arbiterdDataDir)

	if args.ListenIP != "" {
		startArgs = append(startArgs, "-l")
		startArgs = append(startArgs, args.ListenIP)
	}

	if args.TelemetryOverride != "" {
		startArgs = append(startArgs, "-t")
		startArgs = append(startArgs, args.TelemetryOverride)
	}

	return exec.Command(nc.arbiterd, startArgs...)
}

func (nc NodeController) setArbiterdCmdLogFiles(cmd *exec.Cmd) (files []*os.File) {
	{ // Scoped to ensure err and outFile are not used out of scope than they should
		outFile, err := os.OpenFile(filepath.Join(nc.arbiterdDataDir, StdOutFilename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err == nil {
			cmd.Stdout = outFile
			files = append(files, outFile)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to create output log file : %v\n", err)
		}
	}

	{ // Scoped to ensure err and errFile are not used out of scope than they should
		errFile, err := os.OpenFile(filepath.Join(nc.arbiterdDataDir, StdErrFilename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err == nil {
			cmd.Stderr = errFile
			files = append(files, errFile)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to create error log file : %v\n", err)
		}
	}

	return
}
