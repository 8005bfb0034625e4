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

// Package ledger implements the durable storage beneath the arbitration
// engine: an append-only, hash-chained journal of audit events, a key/value
// archive of the latest records, and compressed state snapshots.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/logging"
	"github.com/algorand/go-arbiter/util/db"
	"github.com/algorand/go-arbiter/util/metrics"
)

var journalAppendsTotal = metrics.MakeCounter(metrics.JournalAppendsTotal)
var journalSequenceGauge = metrics.MakeGauge(metrics.JournalSequence)
var journalReplayEntriesTotal = metrics.MakeCounter(metrics.JournalReplayEntriesTotal)

// Journal is the append-only audit trail of the arbitration engine. It
// implements arbitration.EventSink: the engine hands it every event before
// mutating any state, so the journal is always at least as current as the
// stores, and replaying it through the engine's apply path rebuilds them.
type Journal struct {
	dbs db.Pair
	log logging.Logger

	// mu serializes appends so the in-memory head matches the database.
	mu       deadlock.Mutex
	nextSeq  uint64
	lastDgst crypto.Digest
}

// OpenJournal opens the journal database at dbPathPrefix.journal.sqlite,
// creating it if needed, and positions the writer after the last sealed
// entry. With dbMem set the journal lives in memory, which the tests use.
func OpenJournal(log logging.Logger, dbPathPrefix string, dbMem bool) (*Journal, error) {
	j := &Journal{log: log}

	var err error
	j.dbs, err = db.OpenPair(dbPathPrefix+".journal.sqlite", dbMem)
	if err != nil {
		return nil, err
	}

	err = j.dbs.Wdb.Atomic(func(tx *sql.Tx) error {
		err0 := journalInit(tx)
		if err0 != nil {
			return err0
		}
		seq, dgst, ok, err0 := journalLatest(tx)
		if err0 != nil {
			return err0
		}
		if ok {
			j.nextSeq = seq + 1
			j.lastDgst = dgst
		}
		return nil
	})
	if err != nil {
		j.dbs.Close()
		return nil, err
	}

	return j, nil
}

// Append seals ev into the next journal entry and returns the sealed record.
func (j *Journal) Append(ev arbitration.Event) (JournalRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec := JournalRecord{
		Seq:       j.nextSeq,
		Timestamp: time.Now().Unix(),
		Tag:       ev.Tag(),
		Data:      arbitration.EncodeEvent(ev),
		Prev:      j.lastDgst,
	}
	dgst := crypto.HashObj(rec)

	err := j.dbs.Wdb.Atomic(func(tx *sql.Tx) error {
		return journalPut(tx, rec, dgst)
	})
	if err != nil {
		return JournalRecord{}, err
	}

	j.nextSeq = rec.Seq + 1
	j.lastDgst = dgst
	journalAppendsTotal.Inc(nil)
	journalSequenceGauge.Set(rec.Seq)
	return rec, nil
}

// AppendEvent implements arbitration.EventSink.
func (j *Journal) AppendEvent(ev arbitration.Event) error {
	_, err := j.Append(ev)
	return err
}

// Latest returns the sequence number and digest of the last sealed entry.
// ok is false when the journal is empty.
func (j *Journal) Latest() (seq uint64, dgst crypto.Digest, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.nextSeq == 0 {
		return 0, crypto.Digest{}, false
	}
	return j.nextSeq - 1, j.lastDgst, true
}

// Get returns the sealed record at seq.
func (j *Journal) Get(seq uint64) (JournalRecord, error) {
	var rec JournalRecord
	err := j.dbs.Rdb.Atomic(func(tx *sql.Tx) error {
		var err0 error
		rec, _, err0 = journalGet(tx, seq)
		return err0
	})
	return rec, err
}

// Replay walks the journal in sequence order, decoding each entry and
// handing it to fn together with its sealed record. A restarting node
// replays into the engine's apply path to rebuild state.
func (j *Journal) Replay(fn func(rec JournalRecord, ev arbitration.Event) error) error {
	return j.dbs.Rdb.Atomic(func(tx *sql.Tx) error {
		return journalScan(tx, func(rec JournalRecord, dgst crypto.Digest) error {
			ev, err := arbitration.DecodeEvent(rec.Tag, rec.Data)
			if err != nil {
				return fmt.Errorf("journal seq %d: %w", rec.Seq, err)
			}
			journalReplayEntriesTotal.Inc(nil)
			return fn(rec, ev)
		})
	})
}

// VerifyChain re-reads the whole journal and checks its integrity: sequence
// numbers are dense from zero, every record names the digest of its
// predecessor, and every stored digest matches the record it seals.
func (j *Journal) VerifyChain() error {
	return j.dbs.Rdb.Atomic(func(tx *sql.Tx) error {
		var next uint64
		var prev crypto.Digest
		return journalScan(tx, func(rec JournalRecord, dgst crypto.Digest) error {
			if rec.Seq != next {
				return ChainBrokenError{Seq: rec.Seq, Reason: fmt.Sprintf("expected seq %d", next)}
			}
			if rec.Prev != prev {
				return ChainBrokenError{Seq: rec.Seq, Reason: "predecessor digest mismatch"}
			}
			if crypto.HashObj(rec) != dgst {
				return ChainBrokenError{Seq: rec.Seq, Reason: "entry digest mismatch"}
			}
			next = rec.Seq + 1
			prev = dgst
			return nil
		})
	})
}

// ResetTables drops and recreates the journal schema. Test support.
func (j *Journal) ResetTables() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.dbs.Wdb.Atomic(func(tx *sql.Tx) error {
		err0 := journalResetDB(tx)
		if err0 != nil {
			return err0
		}
		return journalInit(tx)
	})
	if err != nil {
		return err
	}
	j.nextSeq = 0
	j.lastDgst = crypto.Digest{}
	return nil
}

// Close closes the underlying database pair.
func (j *Journal) Close() {
	j.dbs.Close()
}
