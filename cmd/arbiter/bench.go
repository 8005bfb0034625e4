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

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/ledger"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/protocol"
)

const (
	red    = color.FgRed
	green  = color.FgGreen
	yellow = color.FgYellow
)

var (
	benchAgents     int
	benchProposals  int
	benchInMemory   bool
	benchReportPath string
)

func init() {
	benchCmd.Flags().IntVarP(&benchAgents, "agents", "a", 25, "Number of agents to register")
	benchCmd.Flags().IntVarP(&benchProposals, "proposals", "n", 500, "Number of proposals to drive through the full decision flow")
	benchCmd.Flags().BoolVarP(&benchInMemory, "mem", "m", false, "Keep the bench journal in memory instead of on disk")
	benchCmd.Flags().StringVarP(&benchReportPath, "report", "j", "", "Specify the file to save the Json formatted report to")
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the arbitration engine",
	Long:  "Benchmark the full decision flow against a throwaway local engine and journal. Does not contact a node.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		if benchAgents < 1 || benchProposals < 1 {
			reportErrorln(errorBenchCounts)
		}
		params := config.Params[protocol.ParamsCurrentVersion]
		if uint64(benchAgents) < params.MinPredictionQuorum {
			reportErrorf("At least %d agents are needed to meet the prediction quorum.", params.MinPredictionQuorum)
		}

		journal, err := ledger.OpenJournal(logging.Base(), "./bench", benchInMemory)
		if err != nil {
			reportErrorf(errorBenchJournal, err)
		}
		defer journal.Close()
		if !benchInMemory {
			defer os.Remove("./bench.journal.sqlite")
			defer os.Remove("./bench.journal.sqlite-shm")
			defer os.Remove("./bench.journal.sqlite-wal")
		}

		engine := arbitration.MakeArbitrationEngine(arbitration.MakeAgentRegistry(), arbitration.MakeProposalStore(), journal, params, 0, nil)
		benchmark := makeBenchmarkReport()

		stage := benchmark.startStage("register")
		identities := make([]crypto.Digest, benchAgents)
		for i := range identities {
			identities[i] = crypto.Hash([]byte(fmt.Sprintf("bench-agent-%d", i)))
			err = engine.RegisterAgent(identities[i], fmt.Sprintf("bench-%d", i), basics.Reputation(params.DefaultInitialReputation))
			if err != nil {
				reportErrorf(errorBenchStage, stage.stage, err)
			}
		}
		stage.completeStage()

		stage = benchmark.startStage("proposals")
		indexes := make([]basics.ProposalIndex, benchProposals)
		for i := range indexes {
			payload := []byte(fmt.Sprintf(`{"bench":%d}`, i))
			indexes[i], err = engine.SubmitProposal(identities[i%benchAgents], payload, int64(i))
			if err != nil {
				reportErrorf(errorBenchStage, stage.stage, err)
			}
		}
		stage.completeStage()

		stage = benchmark.startStage("predictions")
		for _, idx := range indexes {
			for a, id := range identities {
				// Deterministic split, about two thirds in support.
				support := (a+int(idx))%3 != 0
				err = engine.SubmitPrediction(id, idx, support)
				if err != nil {
					reportErrorf(errorBenchStage, stage.stage, err)
				}
			}
		}
		stage.completeStage()

		stage = benchmark.startStage("decisions")
		approved := 0
		for _, idx := range indexes {
			var ok bool
			ok, err = engine.EvaluateDecision(idx)
			if err != nil {
				reportErrorf(errorBenchStage, stage.stage, err)
			}
			if ok {
				approved++
			}
		}
		stage.completeStage()

		stage = benchmark.startStage("outcomes")
		for _, idx := range indexes {
			err = engine.RecordOutcome(idx, crypto.Hash([]byte(fmt.Sprintf("bench-outcome-%d", idx))))
			if err != nil {
				reportErrorf(errorBenchStage, stage.stage, err)
			}
		}
		stage.completeStage()

		stage = benchmark.startStage("verify")
		err = journal.VerifyChain()
		if err != nil {
			reportErrorf(errorBenchStage, stage.stage, err)
		}
		stage.completeStage()

		benchmark.printReport()

		const approvedStr = "Approved: %d / %d"
		c := red
		if approved > 0 {
			c = green
		}
		fmt.Println(color.New(c).Sprintf(approvedStr, approved, benchProposals))

		const rejectedStr = "Rejected: %d / %d"
		c = green
		if approved < benchProposals {
			c = yellow
		}
		fmt.Println(color.New(c).Sprintf(rejectedStr, benchProposals-approved, benchProposals))

		if seq, dgst, ok := journal.Latest(); ok {
			fmt.Println(color.New(green).Sprintf("Journal chain verified: %d entries, head digest %s", seq+1, dgst))
		}

		if benchReportPath != "" {
			if err := benchmark.saveReport(benchReportPath); err != nil {
				fmt.Printf("error writing report to %s: %v\n", benchReportPath, err)
			}
		}
	},
}
