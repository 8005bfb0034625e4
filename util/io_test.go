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

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestMoveFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("contents"), 0644))
	require.NoError(t, MoveFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte("contents"), data)
	require.False(t, FileExists(src))
}

func TestMoveFileByCopying(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("contents"), 0644))
	require.NoError(t, moveFileByCopying(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, []byte("contents"), data)
	require.False(t, FileExists(src))

	// moving onto a directory fails and leaves the source in place
	require.NoError(t, os.WriteFile(src, []byte("again"), 0644))
	require.Error(t, moveFileByCopying(src, dir))
	require.True(t, FileExists(src))
}

func TestIsEmpty(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	require.True(t, IsEmpty(dir))

	// nested empty directories still count as empty
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0755))
	require.True(t, IsEmpty(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "f.txt"), []byte("x"), 0644))
	require.False(t, IsEmpty(dir))
}

func TestGetFirstLineFromFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	netFile := filepath.Join(dir, "arbiterd.net")
	require.NoError(t, os.WriteFile(netFile, []byte("127.0.0.1:8080\n"), 0644))

	line, err := GetFirstLineFromFile(netFile)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", line)

	_, err = GetFirstLineFromFile(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestIsDir(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	require.True(t, IsDir(dir))

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	require.False(t, IsDir(file))
	require.False(t, IsDir(filepath.Join(dir, "missing")))
}
