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

	"github.com/spf13/cobra"

	"github.com/algorand/go-arbiter/crypto"
)

var (
	agentIdentity   string
	agentKeyfile    string
	agentLabel      string
	agentReputation uint64
	reputationDelta int64
)

func init() {
	agentCmd.AddCommand(registerAgentCmd)
	agentCmd.AddCommand(listAgentsCmd)
	agentCmd.AddCommand(agentInfoCmd)
	agentCmd.AddCommand(reputationCmd)

	registerAgentCmd.Flags().StringVarP(&agentIdentity, "identity", "i", "", "Identity digest of the agent to register")
	registerAgentCmd.Flags().StringVarP(&agentKeyfile, "keyfile", "k", "", "Key file whose identity should be registered")
	registerAgentCmd.Flags().StringVarP(&agentLabel, "label", "l", "", "Human-readable label for the agent")
	registerAgentCmd.Flags().Uint64VarP(&agentReputation, "reputation", "r", 0, "Starting reputation (0 selects the node's configured default)")

	agentInfoCmd.Flags().StringVarP(&agentIdentity, "identity", "i", "", "Identity digest of the agent to look up")
	agentInfoCmd.Flags().StringVarP(&agentKeyfile, "keyfile", "k", "", "Key file whose identity should be looked up")

	reputationCmd.Flags().StringVarP(&agentIdentity, "identity", "i", "", "Identity digest of the agent to adjust")
	reputationCmd.Flags().Int64Var(&reputationDelta, "delta", 0, "Signed reputation adjustment to apply")
	reputationCmd.MarkFlagRequired("delta")
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage the registered agent roster",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

// resolveAgentIdentity turns the --identity / --keyfile flags into an
// identity digest, erroring out when neither is usable.
func resolveAgentIdentity() crypto.Digest {
	if agentIdentity != "" {
		identity, err := crypto.DigestFromString(agentIdentity)
		if err != nil {
			reportErrorf(errorParseIdentity, err)
		}
		return identity
	}
	if agentKeyfile != "" {
		secrets := loadKeyfile(agentKeyfile)
		return crypto.Digest(secrets.SignatureVerifier)
	}
	reportErrorln(errorIdentityRequired)
	return crypto.Digest{}
}

var registerAgentCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an agent on the roster",
	Long:  "Register an identity on the node's agent roster. Registration is permanent; an agent cannot be registered twice.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		identity := resolveAgentIdentity()
		client := ensureArbiterClient(dataDir)
		agent, err := client.RegisterAgent(identity, agentLabel, agentReputation)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoRegisteredAgent, agent.Identity, agent.Reputation)
	},
}

var listAgentsCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered agent",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		onDataDirs(func(dataDir string) {
			client := ensureArbiterClient(dataDir)
			response, err := client.Agents()
			if err != nil {
				reportErrorf(errorRequestFail, err)
			}
			if len(response.Agents) == 0 {
				reportInfoln(infoNoAgents)
				return
			}
			for _, agent := range response.Agents {
				label := agent.Label
				if label == "" {
					label = "[no label]"
				}
				fmt.Printf("%s\t%d\t%s\n", agent.Identity, agent.Reputation, label)
			}
		})
	},
}

var agentInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Look up one registered agent",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		identity := resolveAgentIdentity()
		client := ensureArbiterClient(dataDir)
		agent, err := client.AgentInformation(identity)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		fmt.Printf("Identity: %s\n", agent.Identity)
		if agent.Label != "" {
			fmt.Printf("Label: %s\n", agent.Label)
		}
		fmt.Printf("Reputation: %d\n", agent.Reputation)
	},
}

var reputationCmd = &cobra.Command{
	Use:   "reputation",
	Short: "Adjust an agent's reputation",
	Long:  "Apply a signed delta to an agent's reputation score. Decreases saturate at the floor rather than going negative. Requires the admin API token.",
	Args:  validateNoPosArgsFn,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir := ensureSingleDataDir()
		identity := resolveAgentIdentity()
		client := ensureAdminClient(dataDir)
		agent, err := client.AdjustReputation(identity, reputationDelta)
		if err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoAdjustedAgent, agent.Identity, agent.Reputation)
	},
}
