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
	"encoding/binary"
	"errors"

	"github.com/algorand/go-arbiter/arbitration"
	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/data/basics"
	"github.com/algorand/go-arbiter/protocol"
	"github.com/algorand/go-arbiter/util/kvstore"
	"github.com/algorand/go-arbiter/util/metrics"
)

var archivePutsTotal = metrics.MakeCounter(metrics.ArchivePutsTotal)

const archiveStoreImpl = "pebble"

var (
	agentKeyPrefix    = []byte("agent/")
	proposalKeyPrefix = []byte("prop/")
	headKey           = []byte("meta/head")
)

// Archive is a key/value mirror of the latest agent and proposal records,
// refreshed after every applied event. Reads that only need current records
// hit the archive instead of replaying the journal.
//
// The journal stays the source of truth; the archive can always be rebuilt
// from it.
type Archive struct {
	store kvstore.KVStore
}

// archiveHead marks how far the mirror has caught up with the journal.
type archiveHead struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Seq  uint64        `codec:"seq"`
	Dgst crypto.Digest `codec:"d"`
}

// OpenArchive opens the archive at dbdir, creating it if needed. With inMem
// set the store never touches disk, which the tests use.
func OpenArchive(dbdir string, inMem bool) (*Archive, error) {
	store, err := kvstore.NewKVStore(archiveStoreImpl, dbdir, inMem)
	if err != nil {
		return nil, err
	}
	return &Archive{store: store}, nil
}

// Close closes the underlying store.
func (a *Archive) Close() error {
	return a.store.Close()
}

func agentKey(identity crypto.Digest) []byte {
	return append(agentKeyPrefix[:len(agentKeyPrefix):len(agentKeyPrefix)], identity[:]...)
}

// proposalKey is big-endian so that iterating the prefix yields proposals in
// index order.
func proposalKey(idx basics.ProposalIndex) []byte {
	key := make([]byte, len(proposalKeyPrefix)+8)
	copy(key, proposalKeyPrefix)
	binary.BigEndian.PutUint64(key[len(proposalKeyPrefix):], uint64(idx))
	return key
}

// keyPrefixUpperBound returns the smallest key strictly greater than every
// key carrying prefix, for use as an iterator's exclusive end bound.
func keyPrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// PutAgent writes the latest record for one agent.
func (a *Archive) PutAgent(agent arbitration.Agent) error {
	err := a.store.Set(agentKey(agent.Identity), protocol.Encode(&agent))
	if err != nil {
		return err
	}
	archivePutsTotal.Inc(nil)
	return nil
}

// PutProposal writes the latest record for one proposal.
func (a *Archive) PutProposal(prop arbitration.Proposal) error {
	err := a.store.Set(proposalKey(prop.Index), protocol.Encode(&prop))
	if err != nil {
		return err
	}
	archivePutsTotal.Inc(nil)
	return nil
}

// SetHead marks the journal position the mirror is current through.
func (a *Archive) SetHead(seq uint64, dgst crypto.Digest) error {
	head := archiveHead{Seq: seq, Dgst: dgst}
	return a.store.Set(headKey, protocol.Encode(&head))
}

// Head returns the journal position the mirror is current through. ok is
// false when the archive has never been written.
func (a *Archive) Head() (seq uint64, dgst crypto.Digest, ok bool, err error) {
	buf, err := a.store.Get(headKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			err = nil
		}
		return
	}

	var head archiveHead
	err = protocol.Decode(buf, &head)
	if err != nil {
		return
	}
	return head.Seq, head.Dgst, true, nil
}

// LookupAgent returns the mirrored record for identity. ok is false when the
// archive holds no such agent.
func (a *Archive) LookupAgent(identity crypto.Digest) (agent arbitration.Agent, ok bool, err error) {
	buf, err := a.store.Get(agentKey(identity))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			err = nil
		}
		return
	}

	err = protocol.Decode(buf, &agent)
	if err != nil {
		return
	}
	return agent, true, nil
}

// LookupProposal returns the mirrored record for proposal idx. ok is false
// when the archive holds no such proposal.
func (a *Archive) LookupProposal(idx basics.ProposalIndex) (prop arbitration.Proposal, ok bool, err error) {
	buf, err := a.store.Get(proposalKey(idx))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			err = nil
		}
		return
	}

	err = protocol.Decode(buf, &prop)
	if err != nil {
		return
	}
	return prop, true, nil
}

// Agents returns every mirrored agent record.
func (a *Archive) Agents() ([]arbitration.Agent, error) {
	iter := a.store.NewIterator(agentKeyPrefix, keyPrefixUpperBound(agentKeyPrefix))
	defer iter.Close()

	var agents []arbitration.Agent
	for ; iter.Valid(); iter.Next() {
		buf, err := iter.Value()
		if err != nil {
			return nil, err
		}
		var agent arbitration.Agent
		err = protocol.Decode(buf, &agent)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// Proposals returns every mirrored proposal record, in index order.
func (a *Archive) Proposals() ([]arbitration.Proposal, error) {
	iter := a.store.NewIterator(proposalKeyPrefix, keyPrefixUpperBound(proposalKeyPrefix))
	defer iter.Close()

	var props []arbitration.Proposal
	for ; iter.Valid(); iter.Next() {
		buf, err := iter.Value()
		if err != nil {
			return nil, err
		}
		var prop arbitration.Proposal
		err = protocol.Decode(buf, &prop)
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}

// PutState refreshes the whole mirror in one batch: every record plus the
// journal head it reflects. A restarting node calls it after replay.
func (a *Archive) PutState(agents []arbitration.Agent, props []arbitration.Proposal, seq uint64, dgst crypto.Digest) error {
	batch := a.store.NewBatch()

	for i := range agents {
		err := batch.Set(agentKey(agents[i].Identity), protocol.Encode(&agents[i]))
		if err != nil {
			batch.Cancel()
			return err
		}
	}
	for i := range props {
		err := batch.Set(proposalKey(props[i].Index), protocol.Encode(&props[i]))
		if err != nil {
			batch.Cancel()
			return err
		}
	}
	head := archiveHead{Seq: seq, Dgst: dgst}
	err := batch.Set(headKey, protocol.Encode(&head))
	if err != nil {
		batch.Cancel()
		return err
	}

	err = batch.Commit()
	if err != nil {
		return err
	}
	archivePutsTotal.AddUint64(uint64(len(agents)+len(props)), nil)
	return nil
}
