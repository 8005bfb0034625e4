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
	"time"

	"github.com/spf13/cobra"

	"github.com/algorand/go-arbiter/arbitration"
	cmdutil "github.com/algorand/go-arbiter/cmd/util"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
)

var (
	proposalIndex   uint64
	proposerArg     string
	configText      string
	configFilename  string
	predictedValue  int64
	signSubmission  bool
	signKeyfile     string
	supportFlag     bool
	opposeFlag      bool
	outcomeHashArg  string
	attestorKeyfile string

	proposalPhaseFilter = cmdutil.MakeCobraStringValue("any", []string{
		arbitration.Created.String(),
		arbitration.AwaitingDecision.String(),
		arbitration.Decided.String(),
		arbitration.Recorded.String(),
	})
)

func init() {
	proposalCmd.AddCommand(submitProposalCmd)
	proposalCmd.AddCommand(listProposalsCmd)
	proposalCmd.AddCommand(showProposalCmd)
	proposalCmd.AddCommand(listPredictionsCmd)
	proposalCmd.AddCommand(decideProposalCmd)
	proposalCmd.AddCommand(recordOutcomeCmd)

	submitProposalCmd.Flags().StringVarP(&proposerArg, "proposer", "p", "", "Identity digest of the proposing agent")
	submitProposalCmd.Flags().StringVarP(&signKeyfile, "keyfile", "k", "", "Key file of the proposing agent")
	submitProposalCmd.Flags().StringVarP(&configText, "config", "c", "", "Configuration payload, given inline")
	submitProposalCmd.Flags().StringVarP(&configFilename, "config-file", "f", "", "File containing the configuration payload")
	submitProposalCmd.Flags().Int64VarP(&predictedValue, "predicted", "v", 0, "The proposer's predicted outcome value")
	submitProposalCmd.Flags().BoolVarP(&signSubmission, "sign", "S", false, "Sign the submission with --keyfile and send it through the signed submission endpoint")

	listProposalsCmd.Flags().Var(proposalPhaseFilter, "phase", "Only list proposals in the given phase: "+proposalPhaseFilter.AllowedString())

	showProposalCmd.Flags().Uint64VarP(&proposalIndex, "index", "i", 0, "Index of the proposal")
	showProposalCmd.MarkFlagRequired("index")

	listPredictionsCmd.Flags().Uint64VarP(&proposalIndex, "index", "i", 0, "Index of the proposal")
	listPredictionsCmd.MarkFlagRequired("index")

	decideProposalCmd.Flags().Uint64VarP(&proposalIndex, "index", "i", 0, "Index of the proposal to decide")
	decideProposalCmd.MarkFlagRequired("index")

	recordOutcomeCmd.Flags().Uint64VarP(&proposalIndex, "index", "i", 0, "Index of the decided proposal")
	recordOutcomeCmd.Flags().StringVarP(&outcomeHashArg, "hash", "H", "", "Outcome fingerprint digest to record")
	recordOutcomeCmd.Flags().StringVarP(&attestorKeyfile, "keyfile", "k", "", "Key file of the attesting agent")
	recordOutcomeCmd.Flags().BoolVarP(&signSubmission, "sign", "S", false, "Sign the attestation with --keyfile and send it through the signed submission endpoint")
	recordOutcomeCmd.MarkFlagRequired("index")
	recordOutcomeCmd.MarkFlagRequired("hash")

	predictCmd.Flags().Uint64VarP(&proposalIndex, "index", "i", 0, "Index of the proposal to predict on")
	predictCmd.Flags().StringVarP(&agentIdentity, "agent", "a", "", "Identity digest of the predicting agent")
	predictCmd.Flags().StringVarP(&signKeyfile, "keyfile", "k", "", "Key file of the predicting agent")
	predictCmd.Flags().BoolVar(&supportFlag, "support", false, "Predict that the proposal should be approved")
	predictCmd.Flags().BoolVar(&opposeFlag, "oppose", false, "Predict that the proposal should be rejected")
	predictCmd.Flags().BoolVarP(&signSubmission, "sign", "S", false, "Sign the prediction with --keyfile and send it through the signed submission endpoint")
	predictCmd.MarkFlagRequired("index")
}

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Submit and inspect decision proposals",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

// readConfigPayload resolves the --config / --config-file flags into the
// payload bytes.
func readConfigPayload() []byte {
	if configFilename != "" {
		data, err := os.ReadFile(configFilename)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		return data
	}
	if configText != "" {
		return []byte(configText)
	}
	reportErrorln(errorConfigRequired)
	return nil
}

var submitProposalCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a configuration proposal",
	Long:  "Submit a configuration proposal on behalf of a registered agent. The node assigns the next free index and opens the proposal for predictions.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		configPayload := readConfigPayload()
		client := ensureArbiterClient(dataDir)

		if signSubmission {
			secrets := loadKeyfile(signKeyfile)
			sub := arbitration.ProposalSubmission{
				Proposer:       crypto.Digest(secrets.SignatureVerifier),
				Config:         configPayload,
				PredictedValue: predictedValue,
			}
			sp := arbitration.SignedProposal{
				Submission: sub,
				Sig:        secrets.Sign(sub),
			}
			response, err := client.SendSignedProposal(sp)
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			reportInfof(infoProposalSubmitted, response.Index)
			return
		}

		var proposer crypto.Digest
		if proposerArg != "" {
			var err error
			proposer, err = crypto.DigestFromString(proposerArg)
			if err != nil {
				reportErrorf(errorParseIdentity, err)
			}
		} else if signKeyfile != "" {
			proposer = crypto.Digest(loadKeyfile(signKeyfile).SignatureVerifier)
		} else {
			reportErrorln(errorIdentityRequired)
		}
		response, err := client.SubmitProposal(proposer, configPayload, predictedValue)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoProposalSubmitted, response.Index)
	},
}

var listProposalsCmd = &cobra.Command{
	Use:   "list",
	Short: "List every proposal the node has accepted",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		onDataDirs(func(dataDir string) {
			client := ensureArbiterClient(dataDir)
			response, err := client.Proposals()
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			if len(response.Proposals) == 0 {
				reportInfoln(infoNoProposals)
				return
			}
			for _, prop := range response.Proposals {
				if phase := proposalPhaseFilter.String(); phase != "any" && prop.Phase != phase {
					continue
				}
				fmt.Printf("%d\t%s\t%s\n", prop.Index, prop.Phase, prop.Proposer)
			}
		})
	},
}

var showProposalCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one proposal in full",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		client := ensureArbiterClient(dataDir)
		prop, err := client.ProposalInformation(basics.ProposalIndex(proposalIndex))
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		fmt.Printf("Proposal: %d\n", prop.Index)
		fmt.Printf("Proposer: %s\n", prop.Proposer)
		fmt.Printf("Phase: %s\n", prop.Phase)
		fmt.Printf("Submitted: %s\n", time.Unix(prop.Timestamp, 0).UTC().Format(time.RFC3339))
		fmt.Printf("Predicted value: %d\n", prop.PredictedValue)
		fmt.Printf("Config (%d bytes): %q\n", len(prop.Config), prop.Config)
		if prop.Decided {
			verdict := "rejected"
			if prop.Approved {
				verdict = "approved"
			}
			fmt.Printf("Decision: %s (%d support / %d oppose)\n", verdict, prop.SupportCount, prop.OpposeCount)
		}
		if prop.OutcomeHash != "" {
			fmt.Printf("Outcome hash: %s\n", prop.OutcomeHash)
		}
	},
}

var listPredictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "List the predictions recorded for one proposal",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		client := ensureArbiterClient(dataDir)
		response, err := client.Predictions(basics.ProposalIndex(proposalIndex))
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		if len(response.Predictions) == 0 {
			reportInfof(infoNoPredictions, proposalIndex)
			return
		}
		for _, prediction := range response.Predictions {
			vote := "oppose"
			if prediction.Support {
				vote = "support"
			}
			fmt.Printf("%s\t%s\n", prediction.Agent, vote)
		}
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Record a support or oppose prediction on a proposal",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		if supportFlag == opposeFlag {
			reportErrorln(errorSupportOrOppose)
		}
		client := ensureArbiterClient(dataDir)

		vote := "oppose"
		if supportFlag {
			vote = "support"
		}

		if signSubmission {
			secrets := loadKeyfile(signKeyfile)
			prediction := arbitration.Prediction{
				Proposal: basics.ProposalIndex(proposalIndex),
				Agent:    crypto.Digest(secrets.SignatureVerifier),
				Support:  supportFlag,
			}
			sp := arbitration.SignedPrediction{
				Prediction: prediction,
				Sig:        secrets.Sign(prediction),
			}
			response, err := client.SendSignedPrediction(sp)
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			reportInfof(infoPredictionPlaced, vote, response.Agent, response.Proposal)
			return
		}

		var agent crypto.Digest
		if agentIdentity != "" {
			var err error
			agent, err = crypto.DigestFromString(agentIdentity)
			if err != nil {
				reportErrorf(errorParseIdentity, err)
			}
		} else if signKeyfile != "" {
			agent = crypto.Digest(loadKeyfile(signKeyfile).SignatureVerifier)
		} else {
			reportErrorln(errorIdentityRequired)
		}
		response, err := client.SubmitPrediction(basics.ProposalIndex(proposalIndex), agent, supportFlag)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoPredictionPlaced, vote, response.Agent, response.Proposal)
	},
}

var decideProposalCmd = &cobra.Command{
	Use:   "decide",
	Short: "Close the prediction window and compute the decision",
	Long:  "Close the prediction window for a proposal and compute its decision. Approval requires strictly more support than opposition; a tie rejects.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		client := ensureArbiterClient(dataDir)
		response, err := client.EvaluateDecision(basics.ProposalIndex(proposalIndex))
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		verdict := "rejected"
		if response.Approved {
			verdict = "approved"
		}
		reportInfof(infoDecisionReached, response.Proposal, verdict, response.SupportCount, response.OpposeCount)
	},
}

var recordOutcomeCmd = &cobra.Command{
	Use:   "outcome",
	Short: "Record the outcome hash for a decided proposal",
	Long:  "Attach the fingerprint of the observed real-world outcome to a decided proposal. The hash is write-once and must not be the zero digest.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		outcomeHash, err := crypto.DigestFromString(outcomeHashArg)
		if err != nil {
			reportErrorf(errorParseHash, err)
		}
		client := ensureArbiterClient(dataDir)

		if signSubmission {
			secrets := loadKeyfile(attestorKeyfile)
			attestation := arbitration.OutcomeAttestation{
				Proposal: basics.ProposalIndex(proposalIndex),
				Attestor: crypto.Digest(secrets.SignatureVerifier),
				Hash:     outcomeHash,
			}
			so := arbitration.SignedOutcome{
				Attestation: attestation,
				Sig:         secrets.Sign(attestation),
			}
			response, err := client.SendSignedOutcome(so)
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			reportInfof(infoOutcomeRecorded, response.OutcomeHash, response.Proposal)
			return
		}

		response, err := client.RecordOutcome(basics.ProposalIndex(proposalIndex), outcomeHash)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoOutcomeRecorded, response.OutcomeHash, response.Proposal)
	},
}
