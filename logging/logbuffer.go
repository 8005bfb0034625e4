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

package logging

import (
	"io"
	"strings"

	"github.com/algorand/go-deadlock"
)

// logBuffer keeps the most recent log output so it can be attached to
// telemetry reports. Writes beyond maxDepth drop the oldest entry.
type logBuffer struct {
	mu       deadlock.Mutex
	maxDepth uint
	entries  []string
}

func createLogBuffer(maxDepth uint) *logBuffer {
	return &logBuffer{
		maxDepth: maxDepth,
	}
}

func (b *logBuffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if uint(len(b.entries)) >= b.maxDepth {
		b.entries = b.entries[1:]
	}
	b.entries = append(b.entries, line)
}

// string returns the current log history as a single string.
func (b *logBuffer) string() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	for _, line := range b.entries {
		sb.WriteString(line)
	}
	return sb.String()
}

// trim discards the history accumulated so far.
func (b *logBuffer) trim() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = nil
}

// wrapOutput tees writes to out into the buffer.
func (b *logBuffer) wrapOutput(out io.Writer) io.Writer {
	return logBufferWriter{out: out, buf: b}
}

type logBufferWriter struct {
	out io.Writer
	buf *logBuffer
}

func (w logBufferWriter) Write(p []byte) (n int, err error) {
	w.buf.append(string(p))
	return w.out.Write(p)
}
