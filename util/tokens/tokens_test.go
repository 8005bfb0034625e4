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

package tokens

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestGenerateAPIToken(t *testing.T) {
	partitiontest.PartitionTest(t)

	dataDir := t.TempDir()
	token, err := GenerateAPIToken(dataDir, ArbiterdTokenFilename)
	require.NoError(t, err)
	require.Len(t, token, tokenByteLength*2)
	require.NoError(t, ValidateAPIToken(token))

	onDisk, err := os.ReadFile(filepath.Join(dataDir, ArbiterdTokenFilename))
	require.NoError(t, err)
	require.Equal(t, token, string(onDisk))

	another, err := GenerateAPIToken(dataDir, ArbiterdTokenFilename)
	require.NoError(t, err)
	require.NotEqual(t, token, another)
}

func TestValidateAPIToken(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Error(t, ValidateAPIToken(""))
	require.Error(t, ValidateAPIToken("tooshort"))
	require.Error(t, ValidateAPIToken(strings.Repeat("zz", tokenByteLength)))
	require.NoError(t, ValidateAPIToken(strings.Repeat("a0", tokenByteLength)))
}

func TestGetAndValidateAPIToken(t *testing.T) {
	partitiontest.PartitionTest(t)

	dataDir := t.TempDir()
	_, err := GetAndValidateAPIToken(dataDir, ArbiterdTokenFilename)
	require.Error(t, err)

	generated, err := GenerateAPIToken(dataDir, ArbiterdTokenFilename)
	require.NoError(t, err)

	read, err := GetAndValidateAPIToken(dataDir, ArbiterdTokenFilename)
	require.NoError(t, err)
	require.Equal(t, generated, read)

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, ArbiterdTokenFilename), []byte("garbage"), 0600))
	read, err = GetAndValidateAPIToken(dataDir, ArbiterdTokenFilename)
	require.Error(t, err)
	require.Equal(t, "garbage", read)
}

func TestValidateOrGenerateAPIToken(t *testing.T) {
	partitiontest.PartitionTest(t)

	dataDir := t.TempDir()

	token, wrote, err := ValidateOrGenerateAPIToken(dataDir, ArbiterdAdminTokenFilename)
	require.NoError(t, err)
	require.True(t, wrote)
	require.NoError(t, ValidateAPIToken(token))

	again, wrote, err := ValidateOrGenerateAPIToken(dataDir, ArbiterdAdminTokenFilename)
	require.NoError(t, err)
	require.False(t, wrote)
	require.Equal(t, token, again)
}
