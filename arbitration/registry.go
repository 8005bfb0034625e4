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

package arbitration

import (
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
)

// AgentRegistry owns the Agent records: which identities are authorized
// participants and what reputation each carries. It is a plain persistence
// layer; the engine is its only writer and every workflow rule lives there.
//
// The registry is not safe for concurrent use on its own; the engine's
// serialization covers it.
type AgentRegistry struct {
	agents map[crypto.Digest]Agent

	// roster preserves registration order. It is used only for
	// enumeration, never for any decision rule.
	roster []crypto.Digest
}

// MakeAgentRegistry creates an empty registry.
func MakeAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[crypto.Digest]Agent),
	}
}

// Register admits identity with the given label and starting reputation.
// An identity registers at most once; re-registering fails and leaves the
// original record untouched.
func (reg *AgentRegistry) Register(identity crypto.Digest, label string, initialReputation basics.Reputation) error {
	if _, ok := reg.agents[identity]; ok {
		return AlreadyRegisteredError{Identity: identity}
	}
	reg.agents[identity] = Agent{
		Identity:   identity,
		Registered: true,
		Reputation: initialReputation,
		Label:      label,
	}
	reg.roster = append(reg.roster, identity)
	return nil
}

// SetReputation overwrites identity's reputation with rep. The caller has
// already computed the adjusted score; the registry stores it blindly.
func (reg *AgentRegistry) SetReputation(identity crypto.Digest, rep basics.Reputation) error {
	agent, ok := reg.agents[identity]
	if !ok {
		return NotRegisteredError{Identity: identity}
	}
	agent.Reputation = rep
	reg.agents[identity] = agent
	return nil
}

// IsRegistered reports whether identity is on the roster.
func (reg *AgentRegistry) IsRegistered(identity crypto.Digest) bool {
	_, ok := reg.agents[identity]
	return ok
}

// ReputationOf returns identity's current reputation, or zero for an
// identity that is not registered.
func (reg *AgentRegistry) ReputationOf(identity crypto.Digest) basics.Reputation {
	return reg.agents[identity].Reputation
}

// LookupAgent returns identity's full record.
func (reg *AgentRegistry) LookupAgent(identity crypto.Digest) (Agent, bool) {
	agent, ok := reg.agents[identity]
	return agent, ok
}

// AgentCount returns the number of registered agents.
func (reg *AgentRegistry) AgentCount() uint64 {
	return uint64(len(reg.roster))
}

// Agents returns the registered agents in registration order.
func (reg *AgentRegistry) Agents() []Agent {
	out := make([]Agent, 0, len(reg.roster))
	for _, identity := range reg.roster {
		out = append(out, reg.agents[identity])
	}
	return out
}
