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
	"database/sql"
	"fmt"

	"github.com/algorand/go-arbiter/crypto"
	"github.com/algorand/go-arbiter/protocol"
)

var journalSchema = []string{
	`CREATE TABLE IF NOT EXISTS journal (
		seq integer primary key,
		ts integer,
		tag text,
		evdata blob,
		prevdgst blob,
		dgst blob)`,
}

var journalResetExprs = []string{
	`DROP TABLE IF EXISTS journal`,
}

// JournalRecord is one sealed entry of the audit journal. Prev carries the
// digest of the preceding record, so the entries form a hash chain: editing
// or dropping any entry breaks every digest after it.
type JournalRecord struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Seq is the entry's dense, zero-based sequence number.
	Seq uint64 `codec:"seq"`

	// Timestamp is the wall-clock time the entry was sealed, in seconds
	// since the epoch.
	Timestamp int64 `codec:"ts"`

	// Tag identifies the type of the encoded event.
	Tag protocol.Tag `codec:"tag"`

	// Data is the canonical encoding of the event.
	Data []byte `codec:"dat"`

	// Prev is the digest of the preceding record, or zero for the first
	// entry.
	Prev crypto.Digest `codec:"prv"`
}

// ToBeHashed implements the crypto.Hashable interface.
func (r JournalRecord) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.JournalEntry, protocol.Encode(&r)
}

func journalInit(tx *sql.Tx) error {
	for _, tableCreate := range journalSchema {
		_, err := tx.Exec(tableCreate)
		if err != nil {
			return fmt.Errorf("journaldb journalInit could not create table %v", err)
		}
	}
	return nil
}

func journalResetDB(tx *sql.Tx) error {
	for _, stmt := range journalResetExprs {
		_, err := tx.Exec(stmt)
		if err != nil {
			return err
		}
	}
	return nil
}

func journalPut(tx *sql.Tx, rec JournalRecord, dgst crypto.Digest) error {
	var max sql.NullInt64
	err := tx.QueryRow("SELECT MAX(seq) FROM journal").Scan(&max)
	if err == sql.ErrNoRows {
		err = nil
	}
	if err != nil {
		return err
	}

	if max.Valid {
		if rec.Seq != uint64(max.Int64+1) {
			return fmt.Errorf("journalPut: seq %d not immediately after %d", rec.Seq, max.Int64)
		}
	} else if rec.Seq != 0 {
		return fmt.Errorf("journalPut: first entry must carry seq 0, not %d", rec.Seq)
	}

	_, err = tx.Exec("INSERT INTO journal (seq, ts, tag, evdata, prevdgst, dgst) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Seq,
		rec.Timestamp,
		string(rec.Tag),
		rec.Data,
		rec.Prev[:],
		dgst[:],
	)
	return err
}

func journalGet(tx *sql.Tx, seq uint64) (rec JournalRecord, dgst crypto.Digest, err error) {
	var tag string
	var prev, d []byte
	err = tx.QueryRow("SELECT ts, tag, evdata, prevdgst, dgst FROM journal WHERE seq=?", seq).
		Scan(&rec.Timestamp, &tag, &rec.Data, &prev, &d)
	if err != nil {
		if err == sql.ErrNoRows {
			err = ErrNoEntry{Seq: seq}
		}
		return
	}

	rec.Seq = seq
	rec.Tag = protocol.Tag(tag)
	copy(rec.Prev[:], prev)
	copy(dgst[:], d)
	return
}

func journalLatest(tx *sql.Tx) (seq uint64, dgst crypto.Digest, ok bool, err error) {
	var d []byte
	err = tx.QueryRow("SELECT seq, dgst FROM journal ORDER BY seq DESC LIMIT 1").Scan(&seq, &d)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		}
		return
	}

	copy(dgst[:], d)
	ok = true
	return
}

func journalScan(tx *sql.Tx, fn func(rec JournalRecord, dgst crypto.Digest) error) error {
	rows, err := tx.Query("SELECT seq, ts, tag, evdata, prevdgst, dgst FROM journal ORDER BY seq ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec JournalRecord
		var tag string
		var prev, d []byte
		err = rows.Scan(&rec.Seq, &rec.Timestamp, &tag, &rec.Data, &prev, &d)
		if err != nil {
			return err
		}
		rec.Tag = protocol.Tag(tag)
		copy(rec.Prev[:], prev)

		var dgst crypto.Digest
		copy(dgst[:], d)

		err = fn(rec, dgst)
		if err != nil {
			return err
		}
	}
	return rows.Err()
}
