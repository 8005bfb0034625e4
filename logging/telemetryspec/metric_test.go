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

package telemetryspec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestMetricIdentifiersAreStable(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	a.Equal(Metric("decision"), DecisionRoundMetrics{}.Identifier())
	a.Equal(Metric("journalReplay"), JournalReplayMetrics{}.Identifier())
	a.Equal(Metric("snapshot"), SnapshotMetrics{}.Identifier())
}

func TestMetricIdentifiersAreDistinct(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	metrics := []MetricDetails{
		DecisionRoundMetrics{},
		JournalReplayMetrics{},
		SnapshotMetrics{},
	}
	seen := make(map[Metric]bool)
	for _, m := range metrics {
		a.False(seen[m.Identifier()], "duplicate metric identifier %s", m.Identifier())
		seen[m.Identifier()] = true
	}
}
