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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/test/partitiontest"
)

func ident(name string) crypto.Digest {
	return crypto.Hash([]byte(name))
}

func TestRegistryRegister(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	reg := MakeAgentRegistry()
	require.False(t, reg.IsRegistered(ident("alice")))
	require.Zero(t, reg.AgentCount())

	require.NoError(t, reg.Register(ident("alice"), "alice", 1000))
	require.True(t, reg.IsRegistered(ident("alice")))
	require.Equal(t, uint64(1), reg.AgentCount())

	agent, ok := reg.LookupAgent(ident("alice"))
	require.True(t, ok)
	require.Equal(t, Agent{
		Identity:   ident("alice"),
		Registered: true,
		Reputation: 1000,
		Label:      "alice",
	}, agent)
}

func TestRegistryDuplicateRegister(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	reg := MakeAgentRegistry()
	require.NoError(t, reg.Register(ident("alice"), "alice", 1000))

	err := reg.Register(ident("alice"), "impostor", 9999)
	require.ErrorIs(t, err, AlreadyRegisteredError{})

	// the original record survives the failed second registration
	agent, ok := reg.LookupAgent(ident("alice"))
	require.True(t, ok)
	require.Equal(t, "alice", agent.Label)
	require.EqualValues(t, 1000, agent.Reputation)
	require.Equal(t, uint64(1), reg.AgentCount())
}

func TestRegistryRosterOrder(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	reg := MakeAgentRegistry()
	names := []string{"carol", "alice", "bob", "dave"}
	for i, name := range names {
		require.NoError(t, reg.Register(ident(name), name, basics.Reputation(100*(i+1))))
	}

	agents := reg.Agents()
	require.Len(t, agents, len(names))
	for i, name := range names {
		require.Equal(t, name, agents[i].Label, "roster position %d", i)
	}
}

func TestRegistrySetReputation(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	reg := MakeAgentRegistry()
	require.NoError(t, reg.Register(ident("alice"), "alice", 1000))

	require.NoError(t, reg.SetReputation(ident("alice"), 42))
	require.EqualValues(t, 42, reg.ReputationOf(ident("alice")))

	err := reg.SetReputation(ident("nobody"), 42)
	require.ErrorIs(t, err, NotRegisteredError{})
	require.Zero(t, reg.ReputationOf(ident("nobody")))
}

func TestRegistryManyAgents(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	reg := MakeAgentRegistry()
	for i := 0; i < 100; i++ {
		require.NoError(t, reg.Register(ident(fmt.Sprintf("agent-%d", i)), fmt.Sprintf("agent-%d", i), 1000))
	}
	require.Equal(t, uint64(100), reg.AgentCount())
	require.Len(t, reg.Agents(), 100)
}
