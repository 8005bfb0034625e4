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

// Package execpool provides a simple priority-aware worker pool along with
// a non-blocking backlog that feeds it.
package execpool

import (
	"context"
	"runtime"
	"sync"
)

// The list of all valid priority values. When adding new ones, add them before numPrios.
// (i.e. there should be no "holes" in the priorities list)
const (
	// LowPriority is the lowest priority of the execution pool, and the first to be dropped when the pool is busy.
	LowPriority Priority = iota
	// HighPriority is the highest priority of the execution pool.
	HighPriority

	numPrios
)

// Priority specifies the execution priority of a given function
type Priority int

// ExecFunc is a matching function prototype for the execution function.
type ExecFunc func(interface{}) interface{}

// A pool is a fixed set of worker goroutines which perform tasks in parallel
type pool struct {
	inputs  []chan enqueuedTask
	wg      sync.WaitGroup
	owner   interface{}
	numCPUs int
}

// An ExecutionPool is a self-managed pool of goroutines that execute arbitrary
// functions at a given priority.
type ExecutionPool interface {
	Enqueue(enqueueCtx context.Context, t ExecFunc, arg interface{}, i Priority, out chan interface{}) error
	GetOwner() interface{}
	Shutdown()
	GetParallelism() int
}

// An enqueuedTask is a task pending execution by the pool.
type enqueuedTask struct {
	execFunc ExecFunc
	arg      interface{}
	out      chan interface{}
}

// MakePool creates an execution pool with a worker per cpu.
func MakePool(owner interface{}) ExecutionPool {
	p := &pool{
		inputs:  make([]chan enqueuedTask, numPrios),
		numCPUs: runtime.NumCPU(),
		owner:   owner,
	}

	for i := range p.inputs {
		p.inputs[i] = make(chan enqueuedTask)
	}

	p.wg.Add(p.numCPUs)
	for i := 0; i < p.numCPUs; i++ {
		go p.worker()
	}
	return p
}

// GetParallelism returns the number of workers the pool runs.
func (p *pool) GetParallelism() int {
	return p.numCPUs
}

// Enqueue hands a single task to the pool, blocking until a worker picks it
// up or the context expires.
func (p *pool) Enqueue(enqueueCtx context.Context, t ExecFunc, arg interface{}, i Priority, out chan interface{}) error {
	select {
	case p.inputs[i] <- enqueuedTask{
		execFunc: t,
		arg:      arg,
		out:      out,
	}:
		return nil
	case <-enqueueCtx.Done():
		return enqueueCtx.Err()
	}
}

// GetOwner returns the owner handed to MakePool.
func (p *pool) GetOwner() interface{} {
	return p.owner
}

// Shutdown signals the workers to exit and waits until they all do.
func (p *pool) Shutdown() {
	for _, input := range p.inputs {
		close(input)
	}
	p.wg.Wait()
}

func (p *pool) worker() {
	var t enqueuedTask
	var ok bool
	lowPrio := p.inputs[LowPriority]
	highPrio := p.inputs[HighPriority]
	defer p.wg.Done()

	for {
		// drain the high priority tasks before giving the low priority ones a chance.
		select {
		case t, ok = <-highPrio:
		default:
			select {
			case t, ok = <-highPrio:
			case t, ok = <-lowPrio:
			}
		}

		if !ok {
			return
		}

		res := t.execFunc(t.arg)
		if t.out != nil {
			t.out <- res
		}
	}
}
