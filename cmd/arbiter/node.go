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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/algorand/go-arbiter/daemon/arbiterd/api/spec/v1"
	"github.com/algorand/go-arbiter/nodecontrol"
	"github.com/algorand/go-arbiter/util"
	"github.com/algorand/go-arbiter/util/s3"
)

var (
	watchMillisecond  uint64
	snapshotBucket    string
	listenIP          string
	telemetryOverride string
	redirectOutput    bool
)

func init() {
	statusCmd.Flags().Uint64VarP(&watchMillisecond, "watch", "w", 0, "Time (in milliseconds) between two successive status updates")

	nodeCmd.AddCommand(nodeStartCmd)
	nodeCmd.AddCommand(nodeStopCmd)
	nodeCmd.AddCommand(nodeRestartCmd)
	nodeStartCmd.Flags().StringVarP(&listenIP, "listen", "l", "", "Endpoint / REST address to listen on")
	nodeStartCmd.Flags().StringVarP(&telemetryOverride, "telemetry", "t", "", `Enable telemetry if supported (Use "true", "false", "0" or "1"`)
	nodeStartCmd.Flags().BoolVarP(&redirectOutput, "redirect", "o", false, "Redirect the node's output to the console instead of its log files")
	nodeRestartCmd.Flags().StringVarP(&listenIP, "listen", "l", "", "Endpoint / REST address to listen on")
	nodeRestartCmd.Flags().StringVarP(&telemetryOverride, "telemetry", "t", "", `Enable telemetry if supported (Use "true", "false", "0" or "1"`)
	nodeRestartCmd.Flags().BoolVarP(&redirectOutput, "redirect", "o", false, "Redirect the node's output to the console instead of its log files")

	journalCmd.AddCommand(journalHeadCmd)
	journalCmd.AddCommand(journalVerifyCmd)

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotPushCmd)
	snapshotPushCmd.Flags().StringVarP(&snapshotBucket, "bucket", "b", "", "S3 bucket to upload to (defaults to $S3_UPLOAD_BUCKET)")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get the current node status",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		onDataDirs(getStatus)
	},
}

func getStatus(dataDir string) {
	const (
		CUU = string("\033[A") // Cursor Up
		DL  = string("\033[M") // Delete Line
	)
	client := ensureArbiterClient(dataDir)
	cleanupFmt := ""
	for {
		stat, err := client.Status()
		if err != nil {
			reportErrorf(errorNodeStatus, err)
		}
		status := cleanupFmt + makeStatusString(stat)
		fmt.Println(status)
		if watchMillisecond == 0 {
			break
		}
		time.Sleep(time.Duration(watchMillisecond) * time.Millisecond)
		cleanupFmt = ""
		for linesCount := len(strings.Split(status, "\n")); linesCount > 0; linesCount-- {
			cleanupFmt += CUU + DL
		}
	}
}

func makeStatusString(stat v1.NodeStatus) string {
	timeSinceLastMutation := fmt.Sprintf("%.1fs", time.Duration(stat.TimeSinceLastMutation).Seconds())
	digest := stat.JournalDigest
	if digest == "" {
		digest = "[empty]"
	}
	return fmt.Sprintf(
		infoNodeStatus,
		stat.JournalSequence,
		digest,
		stat.RegisteredAgents,
		stat.Proposals,
		stat.DecidedProposals,
		stat.RecordedProposals,
		stat.ParamsVersion,
		timeSinceLastMutation)
}

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage the arbiterd process serving a data directory",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var nodeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Initialize the specified arbiter node",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		binDir, err := util.ExeDir()
		if err != nil {
			panic(err)
		}
		onDataDirs(func(dataDir string) {
			nc := nodecontrol.MakeNodeController(binDir, dataDir)
			nodeArgs := nodecontrol.ArbiterdStartArgs{
				ListenIP:          listenIP,
				RedirectOutput:    redirectOutput,
				TelemetryOverride: telemetryOverride,
			}

			arbiterdAlreadyRunning, err := nc.StartArbiterd(nodeArgs)
			if err != nil {
				reportErrorf(errorNodeFailedToStart, err)
			} else {
				if arbiterdAlreadyRunning {
					reportInfoln(infoNodeAlreadyStarted)
				} else {
					reportInfoln(infoNodeStart)
				}
			}
		})
	},
}

var nodeStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the specified arbiter node",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		binDir, err := util.ExeDir()
		if err != nil {
			panic(err)
		}
		onDataDirs(func(dataDir string) {
			nc := nodecontrol.MakeNodeController(binDir, dataDir)

			err = nc.FullStop()
			if err != nil {
				reportErrorf(errorKill, err)
			}

			reportInfoln(infoNodeSuccessfullyStopped)
		})
	},
}

var nodeRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Stop, and then start, the specified arbiter node",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, _ []string) {
		binDir, err := util.ExeDir()
		if err != nil {
			panic(err)
		}
		onDataDirs(func(dataDir string) {
			nc := nodecontrol.MakeNodeController(binDir, dataDir)

			_, err = nc.GetArbiterdPID()
			if err != nil {
				reportInfof(errorNodeNotDetected, err)
				fmt.Println("Attempting to start the node anyway...")
			} else {
				err = nc.FullStop()
				if err != nil {
					reportInfof(errorKill, err)
					fmt.Println("Attempting to start the node anyway...")
				} else {
					reportInfoln(infoNodeSuccessfullyStopped)
				}
			}
			// brief sleep to allow the node to finish shutting down
			time.Sleep(time.Duration(time.Second))

			nodeArgs := nodecontrol.ArbiterdStartArgs{
				ListenIP:          listenIP,
				RedirectOutput:    redirectOutput,
				TelemetryOverride: telemetryOverride,
			}

			arbiterdAlreadyRunning, err := nc.StartArbiterd(nodeArgs)
			if err != nil {
				reportErrorf(errorNodeFailedToStart, err)
			} else {
				if arbiterdAlreadyRunning {
					// This can never happen. In case it does, report about it.
					reportInfoln(infoNodeDidNotRestart)
				} else {
					reportInfoln(infoNodeStart)
				}
			}
		})
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and verify the node's audit journal",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var journalHeadCmd = &cobra.Command{
	Use:   "head",
	Short: "Show the latest journal entry's sequence and chain digest",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		onDataDirs(func(dataDir string) {
			client := ensureArbiterClient(dataDir)
			head, err := client.JournalHead()
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			if head.Empty {
				reportInfoln(infoJournalEmpty)
				return
			}
			reportInfof(infoJournalHead, head.Sequence, head.Digest)
		})
	},
}

var journalVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay the journal's hash chain end to end",
	Long:  "Ask the node to replay its journal and confirm every entry's chain digest. Requires the admin API token. This can take a while on a long journal.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		client := ensureAdminClient(dataDir)
		var result v1.JournalVerification
		var err error
		util.RunFuncWithSpinningCursor(func() {
			result, err = client.VerifyJournal()
		})
		if err != nil {
			reportErrorf(errorJournalVerify, err)
		}
		reportInfof(infoJournalVerified, result.Sequence, result.Digest)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write and distribute state snapshots",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write a state snapshot into the node's data directory",
	Long:  "Ask the node to write a snapshot of its current state into its data directory. Requires the admin API token.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		client := ensureAdminClient(dataDir)
		receipt, err := client.WriteSnapshot()
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoSnapshotWritten, receipt.Path, receipt.Sequence)
	},
}

var snapshotPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write a state snapshot and upload it to S3",
	Long:  "Ask the node to write a snapshot, then upload the snapshot file to an S3 bucket. Credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		client := ensureAdminClient(dataDir)
		receipt, err := client.WriteSnapshot()
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoSnapshotWritten, receipt.Path, receipt.Sequence)

		bucket := snapshotBucket
		if bucket == "" {
			bucket = s3.GetS3UploadBucket()
		}
		helper, err := s3.MakeS3SessionForUploadWithBucket(bucket)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		file, err := os.Open(receipt.Path)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		defer file.Close()
		name := filepath.Base(receipt.Path)
		err = helper.UploadFileStream(name, file)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoSnapshotUploaded, bucket, name)
	},
}
