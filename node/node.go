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

// Package node is the arbiter node itself, with functions exposed to the frontend
package node

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/data/verify"
	"github.com/algorand/go-arbiter/ledger"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/logging/telemetryspec"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/util/execpool"
	"github.com/algorand/go-arbiter/util/metrics"
	"github.com/algorand/go-arbiter/util/s3"
	"github.com/algorand/go-arbiter/util/timers"
)

var agentsRegisteredTotal = metrics.MakeCounter(metrics.ArbitrationAgentsRegisteredTotal)
var proposalsSubmittedTotal = metrics.MakeCounter(metrics.ArbitrationProposalsSubmittedTotal)
var predictionsSubmittedTotal = metrics.MakeCounter(metrics.ArbitrationPredictionsSubmittedTotal)
var decisionsReachedTotal = metrics.MakeCounter(metrics.ArbitrationDecisionsReachedTotal)
var outcomesRecordedTotal = metrics.MakeCounter(metrics.ArbitrationOutcomesRecordedTotal)

// StatusReport represents the current basic status of the node
type StatusReport struct {
	JournalSequence        uint64
	JournalDigest          crypto.Digest
	JournalNonEmpty        bool
	RegisteredAgents       uint64
	Proposals              uint64
	DecidedProposals       uint64
	RecordedProposals      uint64
	ParamsVersion          protocol.ParamsVersion
	LastMutationTimestamp  time.Time
	HasMutatedSinceStartup bool
}

// TimeSinceLastMutation returns the time since the last successful mutating
// operation, or 0 if the node has not accepted one yet.
func (status StatusReport) TimeSinceLastMutation() time.Duration {
	if status.LastMutationTimestamp.IsZero() {
		return time.Duration(0)
	}

	return time.Since(status.LastMutationTimestamp)
}

// ArbiterNode specifies and implements a full arbiter node. It ties the
// journal, the optional archive, and the arbitration engine together, and
// funnels every mutation through the engine so that each accepted operation
// is journaled exactly once.
type ArbiterNode struct {
	mu        deadlock.Mutex
	ctx       context.Context
	cancelCtx context.CancelFunc
	config    config.Local

	engine  *arbitration.SerializedArbitrationEngine
	journal *ledger.Journal
	archive *ledger.Archive

	paramsVersion protocol.ParamsVersion
	params        config.ArbitrationParams

	rootDir string
	log     logging.Logger

	lastMutationTimestamp  time.Time
	hasMutatedSinceStartup bool

	cryptoPool                         execpool.ExecutionPool
	highPriorityCryptoVerificationPool execpool.BacklogPool
	submissionVerifier                 *verify.AsyncSubmissionVerifier

	appendsSinceSnapshot uint64
	snapshotNotify       chan struct{}

	monitoringRoutinesWaitGroup sync.WaitGroup
}

// MakeArbiterNode sets up an arbiter node: it opens the journal under
// rootDir, replays it into a fresh engine, and brings the archive up to the
// journal head when the node is archival.
func MakeArbiterNode(log logging.Logger, rootDir string, cfg config.Local) (*ArbiterNode, error) {
	node := new(ArbiterNode)
	node.rootDir = rootDir
	node.config = cfg
	node.log = log.With("name", cfg.EndpointAddress)

	paramsVersion := protocol.ParamsCurrentVersion
	if cfg.ParamsVersionOverride != "" {
		paramsVersion = protocol.ParamsVersion(cfg.ParamsVersionOverride)
	}
	params, ok := config.Params[paramsVersion]
	if !ok {
		return nil, UnknownParamsVersionError{Version: paramsVersion}
	}
	node.paramsVersion = paramsVersion
	node.params = params

	node.cryptoPool = execpool.MakePool(node)
	node.highPriorityCryptoVerificationPool = execpool.MakeBacklog(node.cryptoPool, 2*node.cryptoPool.GetParallelism(), execpool.HighPriority, node)
	node.submissionVerifier = verify.MakeAsyncSubmissionVerifier(node.highPriorityCryptoVerificationPool)

	journalPathnamePrefix := filepath.Join(rootDir, config.JournalFilenamePrefix)
	journal, err := ledger.OpenJournal(node.log, journalPathnamePrefix, false)
	if err != nil {
		log.Errorf("Cannot initialize journal (%s): %v", journalPathnamePrefix, err)
		return nil, err
	}
	node.journal = journal

	decisionWindow := time.Duration(cfg.DecisionWindowSeconds) * time.Second
	node.engine = arbitration.MakeSerializedEngine(
		arbitration.MakeAgentRegistry(), arbitration.MakeProposalStore(),
		node.journal, params, decisionWindow, timers.MakeMonotonicWallClock(time.Now()))

	err = node.replayJournal()
	if err != nil {
		log.Errorf("Cannot replay journal: %v", err)
		node.journal.Close()
		return nil, err
	}

	if cfg.Archival {
		node.archive, err = ledger.OpenArchive(filepath.Join(rootDir, config.ArchiveDirName), false)
		if err != nil {
			log.Errorf("Cannot initialize archive: %v", err)
			node.journal.Close()
			return nil, err
		}
		err = node.refreshArchive()
		if err != nil {
			log.Errorf("Cannot bring archive up to journal head: %v", err)
			node.archive.Close()
			node.journal.Close()
			return nil, err
		}
	}

	// Set up a context we can use to cancel goroutines on Stop()
	node.ctx, node.cancelCtx = context.WithCancel(context.Background())
	node.snapshotNotify = make(chan struct{}, 1)

	return node, nil
}

// replayJournal rebuilds the engine's state by applying every sealed event
// in order. Replay goes through the same apply path as live operations, so
// the rebuilt state is structurally identical to the state that produced
// the journal.
func (node *ArbiterNode) replayJournal() error {
	startTime := time.Now()
	var entries uint64
	err := node.journal.Replay(func(rec ledger.JournalRecord, ev arbitration.Event) error {
		entries++
		return node.engine.Apply(ev)
	})
	if err != nil {
		return err
	}
	if entries == 0 {
		return nil
	}

	seq, dgst, _ := node.journal.Latest()
	node.log.EventWithDetails(telemetryspec.ApplicationState, telemetryspec.JournalReplayEvent, telemetryspec.JournalReplayEventDetails{
		Entries:  entries,
		Duration: time.Since(startTime),
		HeadHash: dgst.String(),
	})

	var predictions uint64
	props := node.engine.ProposalRecords()
	for _, prop := range props {
		predictions += prop.SupportCount + prop.OpposeCount
	}
	var details struct{}
	node.log.Metrics(telemetryspec.ApplicationState, telemetryspec.JournalReplayMetrics{
		Entries:     entries,
		Registered:  node.engine.RegisteredAgentCount(),
		Proposals:   uint64(len(props)),
		Predictions: predictions,
		ReplayTime:  time.Since(startTime),
	}, details)

	node.log.Infof("Replayed %d journal entries through sequence %d", entries, seq)
	return nil
}

// refreshArchive rewrites the archive from the engine's state, so a node
// switched to archival mode after the fact still catches up with the
// journal. A current archive head makes this a no-op.
func (node *ArbiterNode) refreshArchive() error {
	seq, dgst, ok := node.journal.Latest()
	if !ok {
		return nil
	}
	archSeq, archDgst, archOk, err := node.archive.Head()
	if err != nil {
		return err
	}
	if archOk && archSeq == seq && archDgst == dgst {
		return nil
	}
	return node.archive.PutState(node.engine.Agents(), node.engine.ProposalRecords(), seq, dgst)
}

// Config returns a copy of the node's Local configuration
func (node *ArbiterNode) Config() config.Local {
	return node.config
}

// Params returns the params version the node runs and its settings.
func (node *ArbiterNode) Params() (protocol.ParamsVersion, config.ArbitrationParams) {
	return node.paramsVersion, node.params
}

// Start the node: begin the background maintenance routines.
func (node *ArbiterNode) Start() {
	node.mu.Lock()
	defer node.mu.Unlock()

	node.startMonitoringRoutines()

	seq, _, ok := node.journal.Latest()
	if ok {
		node.log.Infof("Node running; journal at sequence %d", seq)
	} else {
		node.log.Info("Node running; journal is empty")
	}
}

// startMonitoringRoutines starts the internal monitoring routines used by the node.
func (node *ArbiterNode) startMonitoringRoutines() {
	node.monitoringRoutinesWaitGroup.Add(2)

	go node.proposalGaugeThread()

	// Write automatic snapshots off the mutation path
	go node.snapshotThread()
}

// waitMonitoringRoutines waits for all the monitoring routines to exit. Note that
// the node.mu must not be taken, and that the node's context should have been canceled.
func (node *ArbiterNode) waitMonitoringRoutines() {
	node.monitoringRoutinesWaitGroup.Wait()
}

// Stop stops running the node. Once a node is closed, it can never start again.
func (node *ArbiterNode) Stop() {
	node.mu.Lock()
	node.cancelCtx()
	node.mu.Unlock()

	node.waitMonitoringRoutines()
	node.submissionVerifier.Quit()
	node.highPriorityCryptoVerificationPool.Shutdown()
	node.cryptoPool.Shutdown()

	node.mu.Lock()
	defer node.mu.Unlock()
	node.journal.Close()
	if node.archive != nil {
		err := node.archive.Close()
		if err != nil {
			node.log.Warnf("Error closing archive: %v", err)
		}
	}
}

// noteMutation updates the node's liveness bookkeeping after a successful
// mutating operation, and schedules an automatic snapshot once enough
// journal entries have accumulated. The caller holds node.mu.
func (node *ArbiterNode) noteMutation() {
	node.lastMutationTimestamp = time.Now()
	node.hasMutatedSinceStartup = true

	if node.config.SnapshotInterval == 0 {
		return
	}
	node.appendsSinceSnapshot++
	if node.appendsSinceSnapshot >= node.config.SnapshotInterval {
		node.appendsSinceSnapshot = 0
		// Wake up snapshotThread(), non-blocking.
		select {
		case node.snapshotNotify <- struct{}{}:
		default:
		}
	}
}

// archiveAgent mirrors identity's roster entry into the archive. Archive
// writes are derived state: a failure is logged and does not undo the
// journaled operation.
func (node *ArbiterNode) archiveAgent(identity crypto.Digest) {
	if node.archive == nil {
		return
	}
	agent, ok := node.engine.LookupAgent(identity)
	if !ok {
		return
	}
	err := node.archive.PutAgent(agent)
	if err == nil {
		err = node.archiveHead()
	}
	if err != nil {
		node.log.Warnf("Archive update for agent %v failed: %v", identity, err)
	}
}

// archiveProposal mirrors proposal idx into the archive.
func (node *ArbiterNode) archiveProposal(idx basics.ProposalIndex) {
	if node.archive == nil {
		return
	}
	prop, err := node.engine.LookupProposal(idx)
	if err != nil {
		return
	}
	err = node.archive.PutProposal(prop)
	if err == nil {
		err = node.archiveHead()
	}
	if err != nil {
		node.log.Warnf("Archive update for proposal %d failed: %v", idx, err)
	}
}

func (node *ArbiterNode) archiveHead() error {
	seq, dgst, ok := node.journal.Latest()
	if !ok {
		return nil
	}
	return node.archive.SetHead(seq, dgst)
}

// RegisterAgent admits identity to the roster. A zero initialReputation
// asks for the params' default starting score.
func (node *ArbiterNode) RegisterAgent(identity crypto.Digest, label string, initialReputation basics.Reputation) error {
	if len(label) > node.params.MaxLabelBytes {
		return LabelTooLongError{Length: len(label), Max: node.params.MaxLabelBytes}
	}
	if initialReputation == 0 {
		initialReputation = basics.Reputation(node.params.DefaultInitialReputation)
	}

	node.mu.Lock()
	defer node.mu.Unlock()
	err := node.engine.RegisterAgent(identity, label, initialReputation)
	if err != nil {
		return err
	}
	agentsRegisteredTotal.Inc(nil)
	node.archiveAgent(identity)
	node.noteMutation()
	return nil
}

// AdjustReputation applies a signed delta to identity's score.
func (node *ArbiterNode) AdjustReputation(identity crypto.Digest, delta int64) error {
	node.mu.Lock()
	defer node.mu.Unlock()
	err := node.engine.AdjustReputation(identity, delta)
	if err != nil {
		return err
	}
	node.archiveAgent(identity)
	node.noteMutation()
	return nil
}

// SubmitProposal records a configuration-change proposal from caller and
// returns its assigned index.
func (node *ArbiterNode) SubmitProposal(caller crypto.Digest, configPayload []byte, predictedValue int64) (basics.ProposalIndex, error) {
	if len(configPayload) > node.params.MaxConfigPayloadBytes {
		return 0, PayloadTooLargeError{Length: len(configPayload), Max: node.params.MaxConfigPayloadBytes}
	}

	node.mu.Lock()
	defer node.mu.Unlock()
	idx, err := node.engine.SubmitProposal(caller, configPayload, predictedValue)
	if err != nil {
		return 0, err
	}
	proposalsSubmittedTotal.Inc(nil)
	node.archiveProposal(idx)
	node.noteMutation()
	return idx, nil
}

// SubmitPrediction records caller's support/oppose vote on proposal idx.
func (node *ArbiterNode) SubmitPrediction(caller crypto.Digest, idx basics.ProposalIndex, support bool) error {
	node.mu.Lock()
	defer node.mu.Unlock()
	err := node.engine.SubmitPrediction(caller, idx, support)
	if err != nil {
		return err
	}
	predictionsSubmittedTotal.Inc(nil)
	node.archiveProposal(idx)
	node.noteMutation()
	return nil
}

// EvaluateDecision computes and seals the decision for proposal idx.
func (node *ArbiterNode) EvaluateDecision(idx basics.ProposalIndex) (bool, error) {
	node.mu.Lock()
	defer node.mu.Unlock()
	evalStart := time.Now()
	approved, err := node.engine.EvaluateDecision(idx)
	if err != nil {
		return false, err
	}
	decisionsReachedTotal.Inc(nil)
	node.archiveProposal(idx)
	node.noteMutation()

	prop, lookupErr := node.engine.LookupProposal(idx)
	if lookupErr == nil {
		node.log.EventWithDetails(telemetryspec.Arbitration, telemetryspec.DecisionEvent, telemetryspec.DecisionEventDetails{
			ProposalID:   uint64(idx),
			Approved:     approved,
			SupportCount: prop.SupportCount,
			OpposeCount:  prop.OpposeCount,
			Elapsed:      time.Since(time.Unix(prop.Timestamp, 0)).Nanoseconds(),
		})
		if node.config.EnableDecisionStats {
			var details struct {
				ProposalID uint64
			}
			details.ProposalID = uint64(idx)
			node.log.Metrics(telemetryspec.Arbitration, telemetryspec.DecisionRoundMetrics{
				ProposalID:      uint64(idx),
				PredictionCount: prop.SupportCount + prop.OpposeCount,
				SupportCount:    prop.SupportCount,
				OpposeCount:     prop.OpposeCount,
				Approved:        approved,
				EvaluationTime:  time.Since(evalStart),
			}, details)
		}
	}
	return approved, nil
}

// RecordOutcome attaches the outcome fingerprint to a decided proposal.
func (node *ArbiterNode) RecordOutcome(idx basics.ProposalIndex, hash crypto.Digest) error {
	node.mu.Lock()
	defer node.mu.Unlock()
	err := node.engine.RecordOutcome(idx, hash)
	if err != nil {
		return err
	}
	outcomesRecordedTotal.Inc(nil)
	node.archiveProposal(idx)
	node.noteMutation()

	node.log.EventWithDetails(telemetryspec.Arbitration, telemetryspec.OutcomeEvent, telemetryspec.OutcomeEventDetails{
		ProposalID:  uint64(idx),
		OutcomeHash: hash.String(),
	})
	return nil
}

// verifySubmission authenticates env on the crypto verification pool. It
// returns once the verification completes, or once the node begins
// shutting down.
func (node *ArbiterNode) verifySubmission(ctx context.Context, env verify.Envelope) error {
	out := make(chan verify.Response, 1)
	node.submissionVerifier.VerifySubmission(ctx, env, 0, out)
	select {
	case res := <-out:
		return res.Err
	case <-node.ctx.Done():
		return node.ctx.Err()
	}
}

// SubmitSignedProposal authenticates sp and submits it on behalf of its
// proposer.
func (node *ArbiterNode) SubmitSignedProposal(ctx context.Context, sp arbitration.SignedProposal) (basics.ProposalIndex, error) {
	err := node.verifySubmission(ctx, sp)
	if err != nil {
		return 0, err
	}
	return node.SubmitProposal(sp.Submission.Proposer, sp.Submission.Config, sp.Submission.PredictedValue)
}

// SubmitSignedPrediction authenticates sp and records it on behalf of its
// agent.
func (node *ArbiterNode) SubmitSignedPrediction(ctx context.Context, sp arbitration.SignedPrediction) error {
	err := node.verifySubmission(ctx, sp)
	if err != nil {
		return err
	}
	return node.SubmitPrediction(sp.Prediction.Agent, sp.Prediction.Proposal, sp.Prediction.Support)
}

// RecordSignedOutcome authenticates so and records the attested outcome
// hash.
func (node *ArbiterNode) RecordSignedOutcome(ctx context.Context, so arbitration.SignedOutcome) error {
	err := node.verifySubmission(ctx, so)
	if err != nil {
		return err
	}
	return node.RecordOutcome(so.Attestation.Proposal, so.Attestation.Hash)
}

// LookupAgent returns the roster entry for identity.
func (node *ArbiterNode) LookupAgent(identity crypto.Digest) (arbitration.Agent, bool) {
	return node.engine.LookupAgent(identity)
}

// Agents returns the roster in registration order.
func (node *ArbiterNode) Agents() []arbitration.Agent {
	return node.engine.Agents()
}

// LookupProposal returns the proposal record at idx.
func (node *ArbiterNode) LookupProposal(idx basics.ProposalIndex) (arbitration.Proposal, error) {
	return node.engine.LookupProposal(idx)
}

// Proposals returns every proposal record in index order.
func (node *ArbiterNode) Proposals() []arbitration.Proposal {
	return node.engine.ProposalRecords()
}

// Predictions returns the predictions recorded against proposal idx.
func (node *ArbiterNode) Predictions(idx basics.ProposalIndex) []arbitration.Prediction {
	return node.engine.Predictions(idx)
}

// ProposalPhase derives the lifecycle phase of proposal idx.
func (node *ArbiterNode) ProposalPhase(idx basics.ProposalIndex) (arbitration.Phase, error) {
	return node.engine.ProposalPhase(idx)
}

// JournalRecord returns the sealed journal entry at seq.
func (node *ArbiterNode) JournalRecord(seq uint64) (ledger.JournalRecord, error) {
	return node.journal.Get(seq)
}

// VerifyJournal walks the full journal hash chain and reports the first
// broken link, if any.
func (node *ArbiterNode) VerifyJournal() error {
	return node.journal.VerifyChain()
}

// Archive exposes the node's archive handle, or nil when the node is not
// archival.
func (node *ArbiterNode) Archive() *ledger.Archive {
	return node.archive
}

// Status returns a snapshot of the node's view of the journal and the
// engine.
func (node *ArbiterNode) Status() (s StatusReport, err error) {
	node.mu.Lock()
	defer node.mu.Unlock()

	s.LastMutationTimestamp = node.lastMutationTimestamp
	s.HasMutatedSinceStartup = node.hasMutatedSinceStartup
	s.ParamsVersion = node.paramsVersion
	s.JournalSequence, s.JournalDigest, s.JournalNonEmpty = node.journal.Latest()
	s.RegisteredAgents = node.engine.RegisteredAgentCount()
	for _, prop := range node.engine.ProposalRecords() {
		s.Proposals++
		if prop.Decided {
			s.DecidedProposals++
		}
		if !prop.OutcomeHash.IsZero() {
			s.RecordedProposals++
		}
	}
	return
}

// WriteSnapshot captures the engine's state into a compressed snapshot file
// under the data directory, uploading it when a bucket is configured, and
// returns the path of the written file.
func (node *ArbiterNode) WriteSnapshot() (string, error) {
	node.mu.Lock()
	defer node.mu.Unlock()

	startTime := time.Now()
	snap := ledger.BuildSnapshot(node.engine, node.journal)

	dir := filepath.Join(node.rootDir, config.SnapshotDirName)
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return "", err
	}
	path, err := ledger.SaveSnapshot(dir, config.SnapshotFilenamePrefix, snap)
	if err != nil {
		return "", err
	}

	uploaded := false
	if node.config.SnapshotS3Bucket != "" {
		err = node.uploadSnapshot(path)
		if err != nil {
			node.log.Warnf("Snapshot upload to %s failed: %v", node.config.SnapshotS3Bucket, err)
		} else {
			uploaded = true
		}
	}

	var size uint64
	if fi, statErr := os.Stat(path); statErr == nil {
		size = uint64(fi.Size())
	}
	node.log.EventWithDetails(telemetryspec.ApplicationState, telemetryspec.SnapshotEvent, telemetryspec.SnapshotEventDetails{
		Sequence: snap.Seq,
		Size:     size,
		Duration: time.Since(startTime),
		Uploaded: uploaded,
	})

	var details struct{}
	node.log.Metrics(telemetryspec.ApplicationState, telemetryspec.SnapshotMetrics{
		Sequence:     snap.Seq,
		RawSize:      uint64(len(protocol.Encode(&snap))),
		WrittenSize:  size,
		SnapshotTime: time.Since(startTime),
	}, details)
	return path, nil
}

func (node *ArbiterNode) uploadSnapshot(path string) error {
	helper, err := s3.MakeS3SessionForUploadWithBucket(node.config.SnapshotS3Bucket)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return helper.UploadFileStream(filepath.Base(path), f)
}

var proposalsGauge = metrics.MakeGauge(metrics.MetricName{Name: "arbiter_proposal_count", Description: "current number of proposals tracked by the engine"})

func (node *ArbiterNode) proposalGaugeThread() {
	defer node.monitoringRoutinesWaitGroup.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			proposalsGauge.Set(node.engine.NumProposals())
		case <-node.ctx.Done():
			return
		}
	}
}

// snapshotThread writes automatic snapshots. It runs in a separate thread
// so a slow disk or a slow upload never blocks the mutation path.
func (node *ArbiterNode) snapshotThread() {
	defer node.monitoringRoutinesWaitGroup.Done()
	for {
		select {
		case <-node.ctx.Done():
			return
		case <-node.snapshotNotify:
		}

		_, err := node.WriteSnapshot()
		if err != nil {
			node.log.Warnf("Automatic snapshot failed: %v", err)
		}
	}
}
