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

package execpool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestBacklogEnqueue(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	bl := MakeBacklog(nil, 16, LowPriority, t)
	defer bl.Shutdown()

	out := make(chan interface{}, 100)
	for i := 0; i < 100; i++ {
		err := bl.EnqueueBacklog(context.Background(), func(arg interface{}) interface{} {
			return arg.(int) * 2
		}, i, out)
		require.NoError(t, err)
	}

	sum := 0
	for i := 0; i < 100; i++ {
		sum += (<-out).(int)
	}
	// 2 * (0 + 1 + ... + 99)
	require.Equal(t, 9900, sum)
}

func TestBacklogOwnsInternalPool(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	bl := MakeBacklog(nil, 0, LowPriority, t)
	require.Equal(t, t, bl.GetOwner())
	require.Positive(t, bl.GetParallelism())

	// Shutdown also stops the internally created pool and returns only once
	// both are drained.
	bl.Shutdown()
}

func TestBacklogSharedPool(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	pool := MakePool(t)
	defer pool.Shutdown()

	bl := MakeBacklog(pool, 4, HighPriority, nil)
	require.Equal(t, pool.GetParallelism(), bl.GetParallelism())
	bl.Shutdown()

	// The shared pool survives the backlog shutdown.
	out := make(chan interface{}, 1)
	err := pool.Enqueue(context.Background(), func(interface{}) interface{} { return "ok" }, nil, HighPriority, out)
	require.NoError(t, err)
	require.Equal(t, "ok", <-out)
}

func TestBacklogEnqueueCancel(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	bl := MakeBacklog(nil, 1, LowPriority, nil)
	defer bl.Shutdown()

	blocker := make(chan struct{})
	defer close(blocker)

	// Saturate the pool workers and the single buffer slot so that the
	// buffer send cannot be selected.
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		err := bl.EnqueueBacklog(ctx, func(interface{}) interface{} {
			<-blocker
			return nil
		}, nil, nil)
		cancel()
		if err != nil {
			require.ErrorIs(t, err, context.DeadlineExceeded)
			break
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bl.EnqueueBacklog(ctx, func(interface{}) interface{} { return nil }, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMakeBacklogNegativeSize(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	require.Nil(t, MakeBacklog(nil, -1, LowPriority, nil))
}
