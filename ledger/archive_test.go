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

package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/test/partitiontest"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(t.TempDir(), true)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveAgents(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := openTestArchive(t)

	_, ok, err := a.LookupAgent(ident("alice"))
	require.NoError(t, err)
	require.False(t, ok)

	alice := arbitration.Agent{Identity: ident("alice"), Registered: true, Reputation: 1000, Label: "alice"}
	require.NoError(t, a.PutAgent(alice))

	got, ok, err := a.LookupAgent(ident("alice"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice, got)

	// a second put for the same identity overwrites the mirror
	alice.Reputation = 40
	require.NoError(t, a.PutAgent(alice))
	got, ok, err = a.LookupAgent(ident("alice"))
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 40, got.Reputation)

	require.NoError(t, a.PutAgent(arbitration.Agent{Identity: ident("bob"), Registered: true, Reputation: 7, Label: "bob"}))
	agents, err := a.Agents()
	require.NoError(t, err)
	require.Len(t, agents, 2)
}

func TestArchiveProposalsOrdered(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := openTestArchive(t)

	// write out of order; the big-endian keys keep iteration ordered
	for _, idx := range []basics.ProposalIndex{2, 0, 3, 1} {
		prop := arbitration.Proposal{Index: idx, Proposer: ident("alice"), Config: []byte{byte(idx)}}
		require.NoError(t, a.PutProposal(prop))
	}

	props, err := a.Proposals()
	require.NoError(t, err)
	require.Len(t, props, 4)
	for i, prop := range props {
		require.Equal(t, basics.ProposalIndex(i), prop.Index)
	}

	got, ok, err := a.LookupProposal(2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{2}, got.Config)

	_, ok, err = a.LookupProposal(9)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestArchiveHead(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := openTestArchive(t)

	_, _, ok, err := a.Head()
	require.NoError(t, err)
	require.False(t, ok)

	dgst := crypto.Hash([]byte("head"))
	require.NoError(t, a.SetHead(41, dgst))

	seq, got, ok, err := a.Head()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(41), seq)
	require.Equal(t, dgst, got)
}

func TestArchivePutState(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := openTestArchive(t)

	agents := []arbitration.Agent{
		{Identity: ident("alice"), Registered: true, Reputation: 1000, Label: "alice"},
		{Identity: ident("bob"), Registered: true, Reputation: 100, Label: "bob"},
	}
	props := []arbitration.Proposal{
		{Index: 0, Proposer: ident("alice"), Config: []byte("cfg"), Decided: true, Approved: true, SupportCount: 2},
		{Index: 1, Proposer: ident("bob"), Config: []byte("cfg2")},
	}
	dgst := crypto.Hash([]byte("head"))
	require.NoError(t, a.PutState(agents, props, 7, dgst))

	gotAgents, err := a.Agents()
	require.NoError(t, err)
	require.Len(t, gotAgents, 2)

	gotProps, err := a.Proposals()
	require.NoError(t, err)
	require.Equal(t, props, gotProps)

	seq, gotDgst, ok, err := a.Head()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7), seq)
	require.Equal(t, dgst, gotDgst)
}

func TestKeyPrefixUpperBound(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	require.Equal(t, []byte("agent0"), keyPrefixUpperBound([]byte("agent/")))
	require.Equal(t, []byte{0x01}, keyPrefixUpperBound([]byte{0x00}))
	require.Equal(t, []byte{0xab}, keyPrefixUpperBound([]byte{0xaa, 0xff}))
	require.Nil(t, keyPrefixUpperBound([]byte{0xff, 0xff}))
}
