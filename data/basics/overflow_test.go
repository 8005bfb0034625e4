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

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestOAdd(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	res, overflowed := OAdd(uint64(1), uint64(2))
	a.False(overflowed)
	a.Equal(uint64(3), res)

	_, overflowed = OAdd(uint64(math.MaxUint64), uint64(1))
	a.True(overflowed)
}

func TestOSub(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	res, overflowed := OSub(uint64(5), uint64(2))
	a.False(overflowed)
	a.Equal(uint64(3), res)

	_, overflowed = OSub(uint64(1), uint64(2))
	a.True(overflowed)
}

func TestOMul(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	res, overflowed := OMul(uint64(3), uint64(4))
	a.False(overflowed)
	a.Equal(uint64(12), res)

	res, overflowed = OMul(uint64(math.MaxUint64), uint64(0))
	a.False(overflowed)
	a.Equal(uint64(0), res)

	_, overflowed = OMul(uint64(math.MaxUint64), uint64(2))
	a.True(overflowed)
}

func TestODiff(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	res, overflowed := ODiff(7, 3)
	a.False(overflowed)
	a.Equal(int64(4), res)

	res, overflowed = ODiff(3, 7)
	a.False(overflowed)
	a.Equal(int64(-4), res)

	_, overflowed = ODiff(math.MaxUint64, 0)
	a.True(overflowed)
}

func TestSaturation(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	a.Equal(uint64(math.MaxUint64), AddSaturate(uint64(math.MaxUint64), 100))
	a.Equal(uint64(7), AddSaturate(uint64(3), 4))

	a.Equal(uint64(0), SubSaturate(uint64(3), 4))
	a.Equal(uint64(1), SubSaturate(uint64(5), 4))

	a.Equal(uint64(math.MaxUint64), MulSaturate(uint64(math.MaxUint64), 3))
}

func TestOverflowTracker(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	var ot OverflowTracker
	a.Equal(uint64(10), ot.Add(4, 6))
	a.Equal(uint64(2), ot.Sub(6, 4))
	a.Equal(uint64(24), ot.Mul(4, 6))
	a.False(ot.Overflowed)

	ot.Add(math.MaxUint64, 1)
	a.True(ot.Overflowed)
}
