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
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/test/partitiontest"
	"github.com/algorand/go-arbiter/util/timers"
)

var allowAllUnexported = cmp.Exporter(func(f reflect.Type) bool { return true })

// eventRecorder is an EventSink that keeps every appended event in memory.
// Setting fail makes the next append return that error without recording.
type eventRecorder struct {
	events []Event
	fail   error
}

func (r *eventRecorder) AppendEvent(ev Event) error {
	if r.fail != nil {
		err := r.fail
		r.fail = nil
		return err
	}
	r.events = append(r.events, ev)
	return nil
}

// steppedClock is a WallClock whose elapsed time moves only when the test
// advances it.
type steppedClock struct {
	elapsed time.Duration
}

func (c *steppedClock) Zero() timers.Clock {
	c.elapsed = 0
	return c
}

func (c *steppedClock) TimeoutAt(delta time.Duration) <-chan time.Time {
	return nil
}

func (c *steppedClock) Encode() []byte {
	return []byte{}
}

func (c *steppedClock) Decode([]byte) (timers.Clock, error) {
	return c, nil
}

func (c *steppedClock) Since() time.Duration {
	return c.elapsed
}

func (c *steppedClock) DeadlineMonitorAt(at time.Duration) timers.DeadlineMonitor {
	return timers.MakeMonotonicDeadlineMonitor(c, at)
}

func (c *steppedClock) advance(d time.Duration) {
	c.elapsed += d
}

func v1Engine() (*ArbitrationEngine, *eventRecorder) {
	rec := &eventRecorder{}
	eng := MakeArbitrationEngine(MakeAgentRegistry(), MakeProposalStore(), rec, config.Params[protocol.ParamsV1], 0, nil)
	return eng, rec
}

func TestEngineRegisterAgent(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()
	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	require.True(t, eng.IsRegistered(ident("alice")))
	require.Equal(t, uint64(1), eng.RegisteredAgentCount())

	require.Equal(t, []Event{
		AgentRegistered{Identity: ident("alice"), Label: "alice", Reputation: 1000},
	}, rec.events)

	// re-registration fails, emits nothing, and leaves the record alone
	err := eng.RegisterAgent(ident("alice"), "impostor", 9999)
	require.ErrorIs(t, err, AlreadyRegisteredError{})
	require.Len(t, rec.events, 1)
	agent, ok := eng.LookupAgent(ident("alice"))
	require.True(t, ok)
	require.Equal(t, "alice", agent.Label)
	require.EqualValues(t, 1000, agent.Reputation)
}

func TestEngineAdjustReputation(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()
	require.ErrorIs(t, eng.AdjustReputation(ident("ghost"), 10), NotRegisteredError{})
	require.Empty(t, rec.events)

	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))

	// a reward adds
	require.NoError(t, eng.AdjustReputation(ident("alice"), 50))
	require.EqualValues(t, 1050, eng.ReputationOf(ident("alice")))

	// a penalty larger than the current score resets to the floor
	require.NoError(t, eng.AdjustReputation(ident("alice"), -2000))
	require.EqualValues(t, 100, eng.ReputationOf(ident("alice")))

	// from the floor, an in-range penalty is applied as-is even though the
	// result lands below the floor
	require.NoError(t, eng.AdjustReputation(ident("alice"), -60))
	require.EqualValues(t, 40, eng.ReputationOf(ident("alice")))

	// each adjustment emitted one event carrying the resulting score
	require.Equal(t, []Event{
		AgentRegistered{Identity: ident("alice"), Label: "alice", Reputation: 1000},
		ReputationUpdated{Identity: ident("alice"), Reputation: 1050},
		ReputationUpdated{Identity: ident("alice"), Reputation: 100},
		ReputationUpdated{Identity: ident("alice"), Reputation: 40},
	}, rec.events)
}

func TestEngineSubmitProposal(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()

	_, err := eng.SubmitProposal(ident("ghost"), []byte("cfg"), 7)
	require.ErrorIs(t, err, NotRegisteredError{})
	require.Empty(t, rec.events)
	require.Zero(t, eng.NumProposals())

	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	idx0, err := eng.SubmitProposal(ident("alice"), []byte("threshold=5"), 7)
	require.NoError(t, err)
	require.Equal(t, basics.ProposalIndex(0), idx0)
	idx1, err := eng.SubmitProposal(ident("alice"), []byte("threshold=9"), -3)
	require.NoError(t, err)
	require.Equal(t, basics.ProposalIndex(1), idx1)
	require.Equal(t, uint64(2), eng.NumProposals())

	prop, err := eng.LookupProposal(idx0)
	require.NoError(t, err)
	require.Equal(t, ident("alice"), prop.Proposer)
	require.Equal(t, []byte("threshold=5"), prop.Config)
	require.EqualValues(t, 7, prop.PredictedValue)
	require.False(t, prop.Decided)

	phase, err := eng.ProposalPhase(idx0)
	require.NoError(t, err)
	require.Equal(t, Created, phase)

	created, ok := rec.events[1].(ProposalCreated)
	require.True(t, ok)
	require.Equal(t, idx0, created.Index)
	require.Equal(t, ident("alice"), created.Proposer)
	require.Equal(t, []byte("threshold=5"), created.Config)
	require.EqualValues(t, 7, created.PredictedValue)
	require.NotZero(t, created.Timestamp)
}

// TestEnginePredictionPreconditionOrder pins the order in which prediction
// preconditions are checked: caller registration first, then proposal
// existence, then window state, then the duplicate-vote guard.
func TestEnginePredictionPreconditionOrder(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, _ := v1Engine()
	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	require.NoError(t, eng.RegisterAgent(ident("bob"), "bob", 1000))
	idx, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
	require.NoError(t, err)

	// unregistered caller outranks the bad index
	err = eng.SubmitPrediction(ident("ghost"), idx+5, true)
	require.ErrorIs(t, err, NotRegisteredError{})

	// registered caller, bad index
	err = eng.SubmitPrediction(ident("alice"), idx+5, true)
	require.ErrorIs(t, err, InvalidProposalError{})

	require.NoError(t, eng.SubmitPrediction(ident("bob"), idx, true))

	// duplicate vote on an open window
	err = eng.SubmitPrediction(ident("bob"), idx, false)
	require.ErrorIs(t, err, AlreadySubmittedError{})

	_, err = eng.EvaluateDecision(idx)
	require.NoError(t, err)

	// once decided, the closed window outranks the duplicate-vote guard:
	// bob already voted, yet sees the window error
	err = eng.SubmitPrediction(ident("bob"), idx, false)
	require.ErrorIs(t, err, WindowClosedError{})

	// and a first-time voter sees the same
	err = eng.SubmitPrediction(ident("alice"), idx, true)
	require.ErrorIs(t, err, WindowClosedError{})
}

func TestEngineSelfPrediction(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, _ := v1Engine()
	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	idx, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
	require.NoError(t, err)

	// a proposer may predict on its own proposal
	require.NoError(t, eng.SubmitPrediction(ident("alice"), idx, true))
	require.Equal(t, uint64(1), eng.PredictorCount(idx))

	approved, err := eng.EvaluateDecision(idx)
	require.NoError(t, err)
	require.True(t, approved)
}

func TestEngineEvaluateDecision(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()
	voters := []string{"u", "v", "w", "x", "y", "z"}
	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	for _, name := range voters {
		require.NoError(t, eng.RegisterAgent(ident(name), name, 1000))
	}

	_, err := eng.EvaluateDecision(0)
	require.ErrorIs(t, err, InvalidProposalError{})

	idx, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
	require.NoError(t, err)

	// no predictions yet
	_, err = eng.EvaluateDecision(idx)
	require.ErrorIs(t, err, InsufficientPredictionsError{})

	// three support, three oppose: a tie rejects
	for i, name := range voters {
		require.NoError(t, eng.SubmitPrediction(ident(name), idx, i%2 == 0))
	}
	approved, err := eng.EvaluateDecision(idx)
	require.NoError(t, err)
	require.False(t, approved)

	prop, err := eng.LookupProposal(idx)
	require.NoError(t, err)
	require.True(t, prop.Decided)
	require.False(t, prop.Approved)
	require.Equal(t, uint64(3), prop.SupportCount)
	require.Equal(t, uint64(3), prop.OpposeCount)
	require.Equal(t, DecisionExecuted{Index: idx, Approved: false, SupportCount: 3, OpposeCount: 3},
		rec.events[len(rec.events)-1])

	// evaluation is one-shot
	_, err = eng.EvaluateDecision(idx)
	require.ErrorIs(t, err, AlreadyDecidedError{})

	// strict majority approves on a fresh proposal
	idx2, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
	require.NoError(t, err)
	require.NoError(t, eng.SubmitPrediction(ident("u"), idx2, true))
	require.NoError(t, eng.SubmitPrediction(ident("v"), idx2, true))
	require.NoError(t, eng.SubmitPrediction(ident("w"), idx2, false))
	approved, err = eng.EvaluateDecision(idx2)
	require.NoError(t, err)
	require.True(t, approved)
}

func TestEngineRecordOutcome(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, _ := v1Engine()
	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	idx, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
	require.NoError(t, err)

	first := crypto.Hash([]byte("outcome-1"))
	second := crypto.Hash([]byte("outcome-2"))

	require.ErrorIs(t, eng.RecordOutcome(idx+5, first), InvalidProposalError{})

	// recording before the decision is rejected
	require.ErrorIs(t, eng.RecordOutcome(idx, first), DecisionPendingError{})

	require.NoError(t, eng.SubmitPrediction(ident("alice"), idx, true))
	_, err = eng.EvaluateDecision(idx)
	require.NoError(t, err)

	// the zero digest is reserved as the not-yet-recorded sentinel
	require.ErrorIs(t, eng.RecordOutcome(idx, crypto.Digest{}), ZeroOutcomeError{})

	require.NoError(t, eng.RecordOutcome(idx, first))
	phase, err := eng.ProposalPhase(idx)
	require.NoError(t, err)
	require.Equal(t, Recorded, phase)

	// write-once: the second attempt fails and the stored hash is unchanged
	require.ErrorIs(t, eng.RecordOutcome(idx, second), AlreadyRecordedError{})
	prop, err := eng.LookupProposal(idx)
	require.NoError(t, err)
	require.Equal(t, first, prop.OutcomeHash)
}

// TestEngineDecisionScenario walks one proposal through every phase and then
// shows that a single extra supporter flips an otherwise tied vote.
func TestEngineDecisionScenario(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()
	for _, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, eng.RegisterAgent(ident(name), name, 1000))
	}

	idx, err := eng.SubmitProposal(ident("A"), []byte("quorum=3"), 42)
	require.NoError(t, err)
	phase, err := eng.ProposalPhase(idx)
	require.NoError(t, err)
	require.Equal(t, Created, phase)

	require.NoError(t, eng.SubmitPrediction(ident("B"), idx, true))
	require.NoError(t, eng.SubmitPrediction(ident("C"), idx, false))
	phase, err = eng.ProposalPhase(idx)
	require.NoError(t, err)
	require.Equal(t, AwaitingDecision, phase)

	// one support against one oppose is a tie, and a tie rejects
	approved, err := eng.EvaluateDecision(idx)
	require.NoError(t, err)
	require.False(t, approved)
	phase, err = eng.ProposalPhase(idx)
	require.NoError(t, err)
	require.Equal(t, Decided, phase)

	outcome := crypto.Hash([]byte("rolled back"))
	require.NoError(t, eng.RecordOutcome(idx, outcome))
	phase, err = eng.ProposalPhase(idx)
	require.NoError(t, err)
	require.Equal(t, Recorded, phase)

	// the same votes plus one more supporter approve an identical proposal
	idx2, err := eng.SubmitProposal(ident("A"), []byte("quorum=3"), 42)
	require.NoError(t, err)
	require.NoError(t, eng.SubmitPrediction(ident("B"), idx2, true))
	require.NoError(t, eng.SubmitPrediction(ident("C"), idx2, false))
	require.NoError(t, eng.SubmitPrediction(ident("D"), idx2, true))
	approved, err = eng.EvaluateDecision(idx2)
	require.NoError(t, err)
	require.True(t, approved)

	// every successful operation appended exactly one event:
	// 4 registrations, 2 proposals, 5 predictions, 2 decisions, 1 outcome
	require.Len(t, rec.events, 14)
}

// TestEngineSinkFailure checks the all-or-nothing contract: when the audit
// sink rejects an event, the operation fails and no state changes.
func TestEngineSinkFailure(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()
	sinkErr := errors.New("journal: disk full")

	rec.fail = sinkErr
	err := eng.RegisterAgent(ident("alice"), "alice", 1000)
	require.ErrorIs(t, err, sinkErr)
	require.False(t, eng.IsRegistered(ident("alice")))
	require.Empty(t, rec.events)

	// the retry goes through cleanly
	require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
	idx, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
	require.NoError(t, err)

	rec.fail = sinkErr
	err = eng.SubmitPrediction(ident("alice"), idx, true)
	require.ErrorIs(t, err, sinkErr)
	require.Zero(t, eng.PredictorCount(idx))

	require.NoError(t, eng.SubmitPrediction(ident("alice"), idx, true))
	require.Equal(t, uint64(1), eng.PredictorCount(idx))

	rec.fail = sinkErr
	_, err = eng.EvaluateDecision(idx)
	require.ErrorIs(t, err, sinkErr)
	prop, err := eng.LookupProposal(idx)
	require.NoError(t, err)
	require.False(t, prop.Decided)

	approved, err := eng.EvaluateDecision(idx)
	require.NoError(t, err)
	require.True(t, approved)
}

// TestEngineReplay feeds the recorded event stream into a fresh engine and
// checks that the rebuilt state matches the original exactly.
func TestEngineReplay(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, rec := v1Engine()
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, eng.RegisterAgent(ident(name), name, 1000))
	}
	require.NoError(t, eng.AdjustReputation(ident("B"), -2000))
	idx, err := eng.SubmitProposal(ident("A"), []byte("cfg"), 5)
	require.NoError(t, err)
	require.NoError(t, eng.SubmitPrediction(ident("B"), idx, true))
	require.NoError(t, eng.SubmitPrediction(ident("C"), idx, true))
	_, err = eng.EvaluateDecision(idx)
	require.NoError(t, err)
	require.NoError(t, eng.RecordOutcome(idx, crypto.Hash([]byte("done"))))
	_, err = eng.SubmitProposal(ident("C"), []byte("cfg2"), -1)
	require.NoError(t, err)

	replayed, _ := v1Engine()
	for _, ev := range rec.events {
		require.NoError(t, replayed.Apply(ev))
	}

	require.Empty(t, cmp.Diff(eng.Agents(), replayed.Agents(), allowAllUnexported))
	require.Empty(t, cmp.Diff(eng.ProposalRecords(), replayed.ProposalRecords(), allowAllUnexported))
	require.Empty(t, cmp.Diff(eng.Predictions(idx), replayed.Predictions(idx), allowAllUnexported))
	require.Equal(t, eng.ReputationOf(ident("B")), replayed.ReputationOf(ident("B")))
}

func TestEngineApplyUnknownEvent(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	eng, _ := v1Engine()
	err := eng.Apply(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot apply")
}

// TestEngineDecisionDeadline exercises the future-params window enforcement:
// once a proposal's decision window elapses, predictions bounce while
// evaluation and recording still work.
func TestEngineDecisionDeadline(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	window := time.Hour
	setup := func(params config.ArbitrationParams, window time.Duration) (*ArbitrationEngine, *steppedClock, basics.ProposalIndex) {
		clock := &steppedClock{}
		eng := MakeArbitrationEngine(MakeAgentRegistry(), MakeProposalStore(), &eventRecorder{}, params, window, clock)
		require.NoError(t, eng.RegisterAgent(ident("alice"), "alice", 1000))
		require.NoError(t, eng.RegisterAgent(ident("bob"), "bob", 1000))
		require.NoError(t, eng.RegisterAgent(ident("carol"), "carol", 1000))
		idx, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
		require.NoError(t, err)
		return eng, clock, idx
	}

	t.Run("enforced", func(t *testing.T) {
		t.Parallel()
		eng, clock, idx := setup(config.Params[protocol.ParamsFuture], window)

		// inside the window
		require.NoError(t, eng.SubmitPrediction(ident("bob"), idx, true))

		clock.advance(2 * window)

		// past the window: predictions bounce, for new voters too
		err := eng.SubmitPrediction(ident("carol"), idx, false)
		require.ErrorIs(t, err, WindowClosedError{})
		require.Equal(t, uint64(1), eng.PredictorCount(idx))

		// the expired window does not block the rest of the lifecycle
		approved, err := eng.EvaluateDecision(idx)
		require.NoError(t, err)
		require.True(t, approved)
		require.NoError(t, eng.RecordOutcome(idx, crypto.Hash([]byte("done"))))

		// proposals submitted after the advance get their own fresh window
		idx2, err := eng.SubmitProposal(ident("alice"), []byte("cfg"), 0)
		require.NoError(t, err)
		require.NoError(t, eng.SubmitPrediction(ident("carol"), idx2, true))
	})

	t.Run("flag off", func(t *testing.T) {
		t.Parallel()
		eng, clock, idx := setup(config.Params[protocol.ParamsV1], window)
		clock.advance(2 * window)
		require.NoError(t, eng.SubmitPrediction(ident("bob"), idx, true))
	})

	t.Run("no window", func(t *testing.T) {
		t.Parallel()
		eng, clock, idx := setup(config.Params[protocol.ParamsFuture], 0)
		clock.advance(24 * time.Hour)
		require.NoError(t, eng.SubmitPrediction(ident("bob"), idx, true))
	})
}
