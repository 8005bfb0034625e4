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

package ledger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/util/metrics"
)

var snapshotsWrittenTotal = metrics.MakeCounter(metrics.SnapshotsWrittenTotal)

// Snapshot is a complete dump of the engine's state together with the
// journal position it reflects. It spares a recovering node a full journal
// replay and gives operators a portable backup format.
type Snapshot struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Seq and Head identify the last journal entry the state includes.
	Seq  uint64        `codec:"seq"`
	Head crypto.Digest `codec:"head"`

	Agents      []arbitration.Agent      `codec:"agts"`
	Proposals   []arbitration.Proposal   `codec:"prps"`
	Predictions []arbitration.Prediction `codec:"prds"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (s Snapshot) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Snapshot, protocol.Encode(&s)
}

// Digest returns the snapshot's content fingerprint under the given hash
// factory.
func (s Snapshot) Digest(factory crypto.HashFactory) (crypto.GenericDigest, error) {
	err := factory.Validate()
	if err != nil {
		return nil, err
	}
	return crypto.GenericHashObj(factory.NewHash(), s), nil
}

// BuildSnapshot captures the engine's full state and the journal head it
// reflects. The caller must hold off mutations while it runs, or the
// captured state may run ahead of the captured head.
func BuildSnapshot(eng *arbitration.SerializedArbitrationEngine, j *Journal) Snapshot {
	seq, head, _ := j.Latest()
	snap := Snapshot{
		Seq:       seq,
		Head:      head,
		Agents:    eng.Agents(),
		Proposals: eng.ProposalRecords(),
	}
	for _, prop := range snap.Proposals {
		snap.Predictions = append(snap.Predictions, eng.Predictions(prop.Index)...)
	}
	return snap
}

// Events returns a synthetic event sequence that rebuilds the snapshot's
// state when fed through an engine's apply path. Agents come first, then
// each proposal in index order with its predictions, decision, and outcome.
func (s Snapshot) Events() []arbitration.Event {
	evs := make([]arbitration.Event, 0, len(s.Agents)+len(s.Proposals)+len(s.Predictions))

	for _, agent := range s.Agents {
		evs = append(evs, arbitration.AgentRegistered{
			Identity:   agent.Identity,
			Label:      agent.Label,
			Reputation: agent.Reputation,
		})
	}

	preds := make(map[basics.ProposalIndex][]arbitration.Prediction)
	for _, pred := range s.Predictions {
		preds[pred.Proposal] = append(preds[pred.Proposal], pred)
	}

	for _, prop := range s.Proposals {
		evs = append(evs, arbitration.ProposalCreated{
			Index:          prop.Index,
			Proposer:       prop.Proposer,
			Config:         prop.Config,
			PredictedValue: prop.PredictedValue,
			Timestamp:      prop.Timestamp,
		})
		for _, pred := range preds[prop.Index] {
			evs = append(evs, arbitration.PredictionSubmitted{
				Index:   pred.Proposal,
				Agent:   pred.Agent,
				Support: pred.Support,
			})
		}
		if prop.Decided {
			evs = append(evs, arbitration.DecisionExecuted{
				Index:        prop.Index,
				Approved:     prop.Approved,
				SupportCount: prop.SupportCount,
				OpposeCount:  prop.OpposeCount,
			})
		}
		if !prop.OutcomeHash.IsZero() {
			evs = append(evs, arbitration.OutcomeRecorded{
				Index: prop.Index,
				Hash:  prop.OutcomeHash,
			})
		}
	}

	return evs
}

// WriteSnapshot writes the zstd-compressed canonical encoding of snap to w.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	zw := zstd.NewWriter(w)
	_, err := zw.Write(protocol.Encode(&snap))
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	zr := zstd.NewReader(r)
	defer zr.Close()

	var snap Snapshot
	err := protocol.DecodeStream(zr, &snap)
	return snap, err
}

// SnapshotFilename returns the canonical file name for a snapshot of journal
// sequence seq. The sequence is kept parseable for the s3 helper's
// latest-snapshot lookup.
func SnapshotFilename(prefix string, seq uint64) string {
	return fmt.Sprintf("%s_%d.snap.zst", prefix, seq)
}

// SaveSnapshot writes snap into dir under its canonical name and returns the
// full path.
func SaveSnapshot(dir string, prefix string, snap Snapshot) (string, error) {
	path := filepath.Join(dir, SnapshotFilename(prefix, snap.Seq))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	err = WriteSnapshot(f, snap)
	if err != nil {
		f.Close()
		return "", err
	}
	err = f.Close()
	if err != nil {
		return "", err
	}

	snapshotsWrittenTotal.Inc(nil)
	return path, nil
}
