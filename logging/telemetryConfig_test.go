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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func Test_loadTelemetryConfig(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	configsPath := filepath.Join(t.TempDir(), "logging.config")
	err := os.WriteFile(configsPath, []byte(`{
	"Enable": true,
	"GUID": "guid",
	"URI": "elastic.arbiter.example.com",
	"MinLogLevel": 4,
	"ReportHistoryLevel": 4,
	"UserName": "test-user-name"
}`), 0644)
	a.NoError(err)

	cfg, err := loadTelemetryConfig(configsPath)
	a.NoError(err)

	a.Equal(true, cfg.Enable)
	a.Equal("guid", cfg.GUID)
	a.Equal("elastic.arbiter.example.com", cfg.URI)
	a.Equal(logrus.InfoLevel, cfg.MinLogLevel)
	a.Equal(logrus.InfoLevel, cfg.ReportHistoryLevel)
	// make sure the user name was loaded from the specified file
	a.Equal("test-user-name", cfg.UserName)
	// fields missing from the file keep their defaults
	a.Equal(createTelemetryConfig().Password, cfg.Password)
}

func Test_CreateSaveLoadTelemetryConfig(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	configsPath := filepath.Join(t.TempDir(), "logging.config")
	config1 := createTelemetryConfig()

	err := config1.Save(configsPath)
	a.NoError(err)

	config2, err := loadTelemetryConfig(configsPath)
	a.NoError(err)

	a.Equal(config1.Enable, config2.Enable)
	a.Equal(config1.URI, config2.URI)
	a.Equal(config1.Name, config2.Name)
	a.Equal(config1.GUID, config2.GUID)
	a.Equal(config1.MinLogLevel, config2.MinLogLevel)
	a.Equal(config1.ReportHistoryLevel, config2.ReportHistoryLevel)
	a.Equal(config1.FilePath, "")
	a.Equal(configsPath, config2.FilePath)
	a.Equal(config1.ChainID, config2.ChainID)
	a.Equal(config1.SessionGUID, config2.SessionGUID)
	a.Equal(config1.UserName, config2.UserName)
	a.Equal(config1.Password, config2.Password)
}

func Test_SessionFieldsNotPersisted(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	configsPath := filepath.Join(t.TempDir(), "logging.config")
	cfg := createTelemetryConfig()
	cfg.ChainID = "dev-testnet"
	cfg.SessionGUID = "session-guid"
	a.NoError(cfg.Save(configsPath))

	data, err := os.ReadFile(configsPath)
	a.NoError(err)
	a.NotContains(string(data), "dev-testnet")
	a.NotContains(string(data), "session-guid")

	loaded, err := loadTelemetryConfig(configsPath)
	a.NoError(err)
	a.Empty(loaded.ChainID)
	a.Empty(loaded.SessionGUID)
}

func Test_SanitizeTelemetryString(t *testing.T) {
	partitiontest.PartitionTest(t)

	type testcase struct {
		input    string
		expected string
		parts    int
	}

	tests := []testcase{
		{"2001:0db8:85a3:0000:0000:8a2e:0370:7334", "2001:0db8:85a3:0000:0000:8a2e:0370:7334", 1},
		{strings.Repeat("a", 255), strings.Repeat("a", 255), 1},
		{strings.Repeat("a", 255) + "b", strings.Repeat("a", 255), 1},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, SanitizeTelemetryString(test.input, test.parts))
	}
}

func Test_TelemetryOverride(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	cfg := createTelemetryConfig()

	a.True(TelemetryOverride("1", &cfg))
	a.True(cfg.Enable)

	a.False(TelemetryOverride("false", &cfg))
	a.False(cfg.Enable)

	a.False(TelemetryOverride("not-a-bool", &cfg))
	a.False(cfg.Enable)

	a.True(TelemetryOverride("true", &cfg))
	a.True(TelemetryOverride("anything", &cfg))
}
