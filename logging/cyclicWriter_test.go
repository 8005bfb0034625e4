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
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func testCyclicWrite(t *testing.T, liveFileName, archiveFileName string) {
	t.Helper()

	defer os.Remove(liveFileName)
	defer os.Remove(archiveFileName)

	space := 1024
	limit := uint64(space)
	cyclicWriter := MakeCyclicFileWriter(liveFileName, archiveFileName, limit, 0)

	firstWrite := make([]byte, space)
	for i := 0; i < space; i++ {
		firstWrite[i] = 'A'
	}
	n, err := cyclicWriter.Write(firstWrite)
	require.NoError(t, err)
	require.Equal(t, len(firstWrite), n)

	secondWrite := []byte{'B'}
	n, err = cyclicWriter.Write(secondWrite)
	require.NoError(t, err)
	require.Equal(t, len(secondWrite), n)

	liveData, err := os.ReadFile(liveFileName)
	require.NoError(t, err)
	require.Len(t, liveData, len(secondWrite))
	require.Equal(t, byte('B'), liveData[0])

	oldData, err := os.ReadFile(archiveFileName)
	require.NoError(t, err)
	require.Len(t, oldData, space)
	for i := 0; i < space; i++ {
		require.Equal(t, byte('A'), oldData[i])
	}
}

func TestCyclicWrite(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	tmpDir := t.TempDir()

	liveFileName := filepath.Join(tmpDir, "live.test")
	archiveFileName := filepath.Join(tmpDir, "archive.test")

	testCyclicWrite(t, liveFileName, archiveFileName)
}

func TestCyclicWriteEntryTooLarge(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	tmpDir := t.TempDir()
	cyclicWriter := MakeCyclicFileWriter(filepath.Join(tmpDir, "live.test"), filepath.Join(tmpDir, "archive.test"), 16, 0)

	_, err := cyclicWriter.Write(make([]byte, 17))
	require.Error(t, err)
}

func TestArchiveFilenameTemplate(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	cyclic := CyclicFileWriter{
		archive:  "node.archive.{{.Year}}-{{.Month}}-{{.Day}}.log",
		logStart: time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC),
	}
	name := cyclic.getArchiveFilename(time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "node.archive.2026-03-07.log", name)

	glob, err := cyclic.getArchiveGlob()
	require.NoError(t, err)
	require.Equal(t, "node.archive.*-*-*.log", glob)

	matched, err := filepath.Match(glob, name)
	require.NoError(t, err)
	require.True(t, matched)
}

func TestArchiveFilenameLiteral(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	cyclic := CyclicFileWriter{archive: "node.archive.log", logStart: time.Now()}
	require.Equal(t, "node.archive.log", cyclic.getArchiveFilename(time.Now()))
}

func TestCompressLogFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := require.New(t)
	tmpDir := t.TempDir()
	staging := filepath.Join(tmpDir, "node.archive.log")
	compressed := staging + ".gz"

	payload := strings.Repeat("log line\n", 128)
	a.NoError(os.WriteFile(staging, []byte(payload), 0644))

	compressLogFile(staging, compressed)

	// the staging file is removed once the compressed copy exists
	_, err := os.Stat(staging)
	a.True(os.IsNotExist(err))

	f, err := os.Open(compressed)
	a.NoError(err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	a.NoError(err)
	data, err := io.ReadAll(gz)
	a.NoError(err)
	a.Equal(payload, string(data))
}

func TestRemoveOldArchives(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := require.New(t)
	tmpDir := t.TempDir()

	oldArchive := filepath.Join(tmpDir, "node.archive.2026-01-01.log")
	freshArchive := filepath.Join(tmpDir, "node.archive.2026-08-25.log")
	a.NoError(os.WriteFile(oldArchive, []byte("old"), 0644))
	a.NoError(os.WriteFile(freshArchive, []byte("fresh"), 0644))

	now := time.Now()
	a.NoError(os.Chtimes(oldArchive, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))

	cyclic := CyclicFileWriter{
		archive:   filepath.Join(tmpDir, "node.archive.{{.Year}}-{{.Month}}-{{.Day}}.log"),
		maxLogAge: 24 * time.Hour,
	}
	cyclic.removeOldArchives(now)

	_, err := os.Stat(oldArchive)
	a.True(os.IsNotExist(err))
	_, err = os.Stat(freshArchive)
	a.NoError(err)
}

func execCommand(t *testing.T, cmdAndArsg ...string) {
	t.Helper()

	cmd := exec.Command(cmdAndArsg[0], cmdAndArsg[1:]...)
	var errOutput strings.Builder
	cmd.Stderr = &errOutput
	err := cmd.Run()
	require.NoError(t, err, errOutput.String())
}

func TestCyclicWriteAcrossFilesystems(t *testing.T) {
	partitiontest.PartitionTest(t)

	isLinux := strings.HasPrefix(runtime.GOOS, "linux")

	// Skip unless CIRCLECI or TEST_MOUNT_TMPFS is set, and we are on a linux system
	if !isLinux || (os.Getenv("CIRCLECI") == "" && os.Getenv("TEST_MOUNT_TMPFS") == "") {
		t.Skip("This test must be run on a linux system with administrator privileges")
	}

	mountDir := t.TempDir()
	execCommand(t, "sudo", "mount", "-t", "tmpfs", "-o", "size=2K", "tmpfs", mountDir)

	defer execCommand(t, "sudo", "umount", mountDir)

	liveFileName := filepath.Join(t.TempDir(), "live.test")
	archiveFileName := filepath.Join(mountDir, "archive.test")

	testCyclicWrite(t, liveFileName, archiveFileName)
}
