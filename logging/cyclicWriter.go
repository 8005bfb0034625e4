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
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/algorand/go-deadlock"
)

// CyclicFileWriter implements the io.Writer interface and wraps an underlying file.
// It ensures that the file never grows over a limit.
type CyclicFileWriter struct {
	mu        deadlock.Mutex
	writer    *os.File
	liveLog   string
	archive   string
	nextWrite uint64
	limit     uint64
	maxLogAge time.Duration
	logStart  time.Time
}

// MakeCyclicFileWriter returns a writer that wraps a file to ensure it never grows too large
func MakeCyclicFileWriter(liveLogFilePath string, archiveFilePath string, sizeLimitBytes uint64, maxLogAge time.Duration) *CyclicFileWriter {
	cyclic := CyclicFileWriter{
		liveLog:   liveLogFilePath,
		archive:   archiveFilePath,
		limit:     sizeLimitBytes,
		maxLogAge: maxLogAge,
		logStart:  time.Now(),
	}

	fs, err := os.Stat(liveLogFilePath)
	if err == nil {
		cyclic.nextWrite = uint64(fs.Size())
	}

	writer, err := os.OpenFile(liveLogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(fmt.Sprintf("CyclicFileWriter: cannot open log file %v", err))
	}
	cyclic.writer = writer
	return &cyclic
}

// archiveVars are the fields available to the archive filename template.
type archiveVars struct {
	Year      string
	Month     string
	Day       string
	Hour      string
	Minute    string
	Second    string
	EndYear   string
	EndMonth  string
	EndDay    string
	EndHour   string
	EndMinute string
	EndSecond string
}

func makeArchiveVars(start, end time.Time) archiveVars {
	return archiveVars{
		Year:      start.Format("2006"),
		Month:     start.Format("01"),
		Day:       start.Format("02"),
		Hour:      start.Format("15"),
		Minute:    start.Format("04"),
		Second:    start.Format("05"),
		EndYear:   end.Format("2006"),
		EndMonth:  end.Format("01"),
		EndDay:    end.Format("02"),
		EndHour:   end.Format("15"),
		EndMinute: end.Format("04"),
		EndSecond: end.Format("05"),
	}
}

// getArchiveFilename expands the archive filename template against the
// start and end times of the log being rotated. A template that fails to
// parse falls back to the literal configured name.
func (cyclic *CyclicFileWriter) getArchiveFilename(now time.Time) string {
	tmpl, err := template.New("archive").Parse(cyclic.archive)
	if err != nil {
		return cyclic.archive
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, makeArchiveVars(cyclic.logStart, now)); err != nil {
		return cyclic.archive
	}
	return sb.String()
}

// getArchiveGlob returns a pattern matching every filename the archive
// template can produce.
func (cyclic *CyclicFileWriter) getArchiveGlob() (string, error) {
	tmpl, err := template.New("archive").Parse(cyclic.archive)
	if err != nil {
		return "", err
	}
	wild := archiveVars{
		Year: "*", Month: "*", Day: "*", Hour: "*", Minute: "*", Second: "*",
		EndYear: "*", EndMonth: "*", EndDay: "*", EndHour: "*", EndMinute: "*", EndSecond: "*",
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, wild); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// removeOldArchives deletes rotated archives older than maxLogAge.
func (cyclic *CyclicFileWriter) removeOldArchives(now time.Time) {
	if cyclic.maxLogAge == 0 {
		return
	}
	glob, err := cyclic.getArchiveGlob()
	if err != nil {
		return
	}
	matches, err := filepath.Glob(glob)
	if err != nil {
		return
	}
	tooOld := now.Add(-cyclic.maxLogAge)
	for _, path := range matches {
		if fs, err := os.Stat(path); err == nil && fs.ModTime().Before(tooOld) {
			os.Remove(path)
		}
	}
}

// moveLogFile renames from to to, falling back to a copy when the two
// paths live on different filesystems.
func moveLogFile(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(to)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if errClose := out.Close(); err == nil {
		err = errClose
	}
	if err != nil {
		return err
	}
	return os.Remove(from)
}

// compressLogFile gzips from into to, removing from on success.
func compressLogFile(from, to string) {
	in, err := os.Open(from)
	if err != nil {
		return
	}
	defer in.Close()
	out, err := os.Create(to)
	if err != nil {
		return
	}
	gz := gzip.NewWriter(out)
	_, err = io.Copy(gz, in)
	if errClose := gz.Close(); err == nil {
		err = errClose
	}
	if errClose := out.Close(); err == nil {
		err = errClose
	}
	if err == nil {
		os.Remove(from)
	}
}

// Write ensures the underlying file can store an additional len(p) bytes. If there is not enough room left it archives
// the current log and starts a fresh one.
func (cyclic *CyclicFileWriter) Write(p []byte) (n int, err error) {
	cyclic.mu.Lock()
	defer cyclic.mu.Unlock()

	if uint64(len(p)) > cyclic.limit {
		// there's no hope for writing this entry to the log
		return 0, fmt.Errorf("CyclicFileWriter: input too long to write. Len = %v", len(p))
	}

	if cyclic.nextWrite+uint64(len(p)) > cyclic.limit {
		now := time.Now()
		// we don't have enough space to write the entry, so archive data
		cyclic.writer.Close()

		archivePath := cyclic.getArchiveFilename(now)
		if strings.HasSuffix(archivePath, ".gz") {
			staging := archivePath[:len(archivePath)-len(".gz")]
			if err = moveLogFile(cyclic.liveLog, staging); err != nil {
				panic(fmt.Sprintf("CyclicFileWriter: cannot archive full log %v", err))
			}
			go compressLogFile(staging, archivePath)
		} else {
			if err = moveLogFile(cyclic.liveLog, archivePath); err != nil {
				panic(fmt.Sprintf("CyclicFileWriter: cannot archive full log %v", err))
			}
		}
		cyclic.removeOldArchives(now)

		cyclic.writer, err = os.OpenFile(cyclic.liveLog, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			panic(fmt.Sprintf("CyclicFileWriter: cannot open log file %v", err))
		}
		cyclic.logStart = now
		cyclic.nextWrite = 0
	}
	// write the data
	n, err = cyclic.writer.Write(p)
	cyclic.nextWrite += uint64(n)
	return
}
