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

// Package verify authenticates signed arbitration submissions before they
// reach the engine. Callers may verify a single envelope synchronously,
// batch a group of envelopes through a single batch verifier, or stream
// envelopes through an AsyncSubmissionVerifier backed by an execution pool.
package verify

import (
	"context"
	"errors"
	"sync"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/util/execpool"
)

// ErrBadSignature is returned when an envelope's signature does not verify
// against the identity it names.
var ErrBadSignature = errors.New("signature is invalid for the named identity")

// Envelope is a signed submission whose signature can be checked directly or
// enqueued into a batch verifier. SignedProposal, SignedPrediction and
// SignedOutcome all satisfy it.
type Envelope interface {
	Verify() bool
	BatchPrep(bv crypto.BatchVerifier)
}

// One verifies a single envelope synchronously.
func One(env Envelope) error {
	if !env.Verify() {
		return ErrBadSignature
	}
	return nil
}

// Group verifies a batch of envelopes with a single batch verifier. When all
// signatures pass it returns (nil, nil). Otherwise it returns a slice
// parallel to envs marking the failed ones, along with
// crypto.ErrBatchHasFailedSigs.
func Group(envs []Envelope) (failed []bool, err error) {
	bv := crypto.MakeBatchVerifierWithHint(len(envs))
	for _, env := range envs {
		env.BatchPrep(bv)
	}
	return bv.VerifyWithFeedback()
}

type asyncVerifySubmissionRequest struct {
	ctx   context.Context
	env   Envelope
	index int

	// a channel that holds the response
	out chan<- Response
}

// Response carries the result of one asynchronous verification. Index echoes
// the index the caller supplied with the envelope.
type Response struct {
	Index     int
	Err       error
	Cancelled bool

	// a pointer to the request
	req *asyncVerifySubmissionRequest
}

// AsyncSubmissionVerifier uses workers to verify signed submissions and
// writes the results on an output channel specified by the caller.
type AsyncSubmissionVerifier struct {
	done            chan struct{}
	wg              sync.WaitGroup
	workerWaitCh    chan struct{}
	backlogExecPool execpool.BacklogPool
	execpoolOut     chan interface{}
	ctx             context.Context
	ctxCancel       context.CancelFunc
}

// MakeAsyncSubmissionVerifier creates an AsyncSubmissionVerifier with workers
// as the number of CPUs.
func MakeAsyncSubmissionVerifier(verificationPool execpool.BacklogPool) *AsyncSubmissionVerifier {
	verifier := &AsyncSubmissionVerifier{
		done: make(chan struct{}),
	}
	if verificationPool == nil {
		// The MakeBacklog would internally allocate an execution pool if none was provided.
		verificationPool = execpool.MakeBacklog(nil, 0, execpool.HighPriority, verifier)
	}
	verifier.backlogExecPool = verificationPool
	// The backlog execution pool is going to have 2*GetParallelism() items in the input channel.
	// Since we want our output channel to be sufficiently large, we're going to allocate the size of the
	// input channel, plus all the content of the currently-executing tasks. That would prevent the
	// pool from getting stuck by client enqueuing messages, as long as these clients keep pulling from the
	// output queue at the same rate.
	verifier.execpoolOut = make(chan interface{}, 3*verificationPool.GetParallelism())

	verifier.ctx, verifier.ctxCancel = context.WithCancel(context.Background())

	verifier.workerWaitCh = make(chan struct{})
	go verifier.worker()
	return verifier
}

func (asv *AsyncSubmissionVerifier) worker() {
	defer close(asv.workerWaitCh)
	for res := range asv.execpoolOut {
		asyncResponse := res.(*Response)
		if asyncResponse != nil {
			asyncResponse.req.out <- *asyncResponse
		}
		asv.wg.Done()
	}
}

func (asv *AsyncSubmissionVerifier) executeVerification(task interface{}) interface{} {
	req := task.(asyncVerifySubmissionRequest)

	select {
	case <-req.ctx.Done():
		// request cancelled, return an error response on the channel
		return &Response{Index: req.index, Err: req.ctx.Err(), Cancelled: true, req: &req}
	default:
		// request was not cancelled, so we verify it here and return the result on the channel
		bv := crypto.MakeBatchVerifierWithHint(1)
		req.env.BatchPrep(bv)
		var err error
		if bv.Verify() != nil {
			err = ErrBadSignature
		}
		return &Response{Index: req.index, Err: err, req: &req}
	}
}

// VerifySubmission enqueues env for verification. The result is delivered on
// out once a worker has processed the request.
func (asv *AsyncSubmissionVerifier) VerifySubmission(verctx context.Context, env Envelope, index int, out chan<- Response) {
	select {
	case <-asv.ctx.Done(): // if we're quitting, don't enqueue the request
	// case <-verctx.Done(): DO NOT DO THIS! otherwise we will lose the submission (and forget to clean up)!
	// instead, enqueue so the worker will set the error value and return the cancelled submission properly.
	default:
		// if we're done while waiting for room in the requests channel, don't queue the request
		req := asyncVerifySubmissionRequest{ctx: verctx, env: env, index: index, out: out}
		asv.wg.Add(1)
		if asv.backlogExecPool.EnqueueBacklog(asv.ctx, asv.executeVerification, req, asv.execpoolOut) != nil {
			// we want to call "wg.Done()" here to "fix" the accounting of the number of pending tasks.
			// if we got a non-nil, it means that our context has expired, which means that we won't see this task
			// getting to the verification function.
			asv.wg.Done()
		}
	}
}

// Quit tells the AsyncSubmissionVerifier to shutdown and waits until all workers terminate.
func (asv *AsyncSubmissionVerifier) Quit() {
	// indicate we're done and wait for all workers to finish
	asv.ctxCancel()

	// wait until all the tasks we've given the pool are done.
	asv.wg.Wait()
	if asv.backlogExecPool.GetOwner() == asv {
		asv.backlogExecPool.Shutdown()
	}

	// since no more tasks are coming, we can safely close the output pool channel.
	close(asv.execpoolOut)
	// wait until the worker function exits.
	<-asv.workerWaitCh
}

// Parallelism gives the maximum parallelism of the submission verifier.
func (asv *AsyncSubmissionVerifier) Parallelism() int {
	return asv.backlogExecPool.GetParallelism()
}
