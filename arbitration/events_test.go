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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/test/partitiontest"
)

// TestEventDispatch checks that DecodeEvent routes every tag back to the
// concrete type EncodeEvent started from.
func TestEventDispatch(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	events := []Event{
		AgentRegistered{Identity: ident("alice"), Label: "alice", Reputation: 1000},
		ProposalCreated{Index: 3, Proposer: ident("alice"), Config: []byte("cfg"), PredictedValue: -7, Timestamp: 1700000000},
		PredictionSubmitted{Index: 3, Agent: ident("bob"), Support: true},
		DecisionExecuted{Index: 3, Approved: true, SupportCount: 2, OpposeCount: 1},
		OutcomeRecorded{Index: 3, Hash: crypto.Hash([]byte("outcome"))},
		ReputationUpdated{Identity: ident("bob"), Reputation: 100},
	}

	seen := make(map[protocol.Tag]bool)
	for _, ev := range events {
		require.False(t, seen[ev.Tag()], "duplicate tag %q", ev.Tag())
		seen[ev.Tag()] = true

		decoded, err := DecodeEvent(ev.Tag(), EncodeEvent(ev))
		require.NoError(t, err)
		require.Equal(t, ev, decoded)
	}
}

func TestEventDispatchUnknownTag(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	_, err := DecodeEvent(protocol.Tag("??"), []byte{0x80})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown event tag")
}
