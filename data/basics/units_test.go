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

package basics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

const testReputationFloor = Reputation(100)

func TestReputationApplyDelta(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	// positive deltas add
	a.Equal(Reputation(1050), Reputation(1000).ApplyDelta(50, testReputationFloor))
	a.Equal(Reputation(1000), Reputation(1000).ApplyDelta(0, testReputationFloor))

	// a penalty larger than the current score resets to the floor
	a.Equal(Reputation(100), Reputation(1000).ApplyDelta(-2000, testReputationFloor))

	// a penalty that stays non-negative is applied verbatim, even below the floor
	a.Equal(Reputation(30), Reputation(50).ApplyDelta(-20, testReputationFloor))
	a.Equal(Reputation(0), Reputation(50).ApplyDelta(-50, testReputationFloor))

	// an underflowing penalty can raise a low score up to the floor
	a.Equal(Reputation(100), Reputation(50).ApplyDelta(-60, testReputationFloor))
}

func TestReputationAddSaturates(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	max := Reputation(math.MaxUint64)
	a.Equal(max, max.ApplyDelta(1, testReputationFloor))
	a.Equal(max, Reputation(math.MaxUint64-5).ApplyDelta(10, testReputationFloor))
	a.Equal(max, Reputation(math.MaxUint64-5).ApplyDelta(5, testReputationFloor))
}

func TestReputationMinInt64Delta(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	// -MinInt64 is not representable as int64; the magnitude must still be exact
	a.Equal(testReputationFloor, Reputation(1000).ApplyDelta(math.MinInt64, testReputationFloor))
	a.Equal(Reputation(0), Reputation(1<<63).ApplyDelta(math.MinInt64, testReputationFloor))
	a.Equal(Reputation(7), Reputation(1<<63+7).ApplyDelta(math.MinInt64, testReputationFloor))
}

func TestReputationApplyDeltaProperties(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t *rapid.T) {
		start := Reputation(rapid.Uint64().Draw(t, "start"))
		delta := rapid.Int64().Draw(t, "delta")

		got := start.ApplyDelta(delta, testReputationFloor)

		switch {
		case delta >= 0:
			if got < start {
				t.Fatalf("positive delta decreased reputation: %d -> %d", start, got)
			}
		case uint64(start) >= -uint64(delta):
			want := Reputation(uint64(start) + uint64(delta))
			if got != want {
				t.Fatalf("in-range penalty: got %d, want %d", got, want)
			}
		default:
			if got != testReputationFloor {
				t.Fatalf("underflowing penalty: got %d, want floor %d", got, testReputationFloor)
			}
		}
	})
}
