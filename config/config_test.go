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

package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestLocalDefaultsAcrossVersions(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	v0 := GetVersionedDefaultLocalConfig(0)
	a.Equal(uint32(0), v0.Version)
	a.Equal(uint32(1), v0.BaseLoggerDebugLevel)
	a.Equal("127.0.0.1:0", v0.EndpointAddress)
	a.True(v0.TelemetryToLog)

	latest := GetDefaultLocal()
	a.Equal(getLatestConfigVersion(), latest.Version)
	a.Equal(uint32(4), latest.BaseLoggerDebugLevel)
	a.Equal(15, latest.RestReadTimeoutSeconds)
	a.Equal(uint64(1024), latest.RestConnectionsSoftLimit)
	a.True(latest.JournalSyncWrites)
	a.False(latest.EnableSignedSubmissions)
	a.False(latest.EnableDecisionStats)
}

func TestMigrateFromEveryVersion(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	latest := GetDefaultLocal()
	for ver := uint32(0); ver <= getLatestConfigVersion(); ver++ {
		old := GetVersionedDefaultLocalConfig(ver)
		migrated, _, err := migrate(old)
		a.NoError(err)
		a.Equal(latest, migrated, "defaults for version %d did not migrate cleanly", ver)
	}
}

func TestMigratePreservesOverrides(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	old := GetVersionedDefaultLocalConfig(0)
	old.BaseLoggerDebugLevel = 5 // operator override, not the v0 default of 1

	migrated, _, err := migrate(old)
	a.NoError(err)
	a.Equal(getLatestConfigVersion(), migrated.Version)
	a.Equal(uint32(5), migrated.BaseLoggerDebugLevel)
}

func TestMigrateRejectsNewerVersion(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	cfg := GetDefaultLocal()
	cfg.Version = getLatestConfigVersion() + 1
	_, _, err := migrate(cfg)
	a.Error(err)
}

func TestMigrateReportsChanges(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	old := GetVersionedDefaultLocalConfig(0)
	_, changes, err := migrate(old)
	a.NoError(err)

	byField := make(map[string]MigrationResult)
	for _, m := range changes {
		byField[m.FieldName] = m
	}
	m, ok := byField["BaseLoggerDebugLevel"]
	a.True(ok)
	a.Equal(uint64(1), m.OldValue)
	a.Equal(uint64(4), m.NewValue)
}

func TestSaveThenLoad(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	testdir := t.TempDir()

	c1 := GetDefaultLocal()
	c1.EndpointAddress = "127.0.0.1:7833"
	c1.EnableProfiler = true
	a.NoError(c1.SaveToDisk(testdir))

	c2, err := LoadConfigFromDisk(testdir)
	a.NoError(err)

	var b1, b2 bytes.Buffer
	a.NoError(json.NewEncoder(&b1).Encode(c1))
	a.NoError(json.NewEncoder(&b2).Encode(c2))
	a.True(bytes.Equal(b1.Bytes(), b2.Bytes()))
}

func TestLoadMissing(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	_, err := LoadConfigFromDisk(filepath.Join(t.TempDir(), "nosuchdir"))
	a.True(os.IsNotExist(err))
}

func TestMergeConfig(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	testdir := t.TempDir()

	// a reduced version of the Local struct, including a member that no
	// longer exists, to make sure stale config files still load
	c1 := struct {
		EndpointAddress  string
		SnapshotInterval uint64
		ShouldNotExist   int
	}{
		EndpointAddress:  "127.0.0.1:9999",
		SnapshotInterval: 512,
	}

	f, err := os.OpenFile(filepath.Join(testdir, ConfigFilename), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	a.NoError(err)
	a.NoError(json.NewEncoder(f).Encode(c1))
	f.Close()

	c2, err := mergeConfigFromDir(testdir, GetDefaultLocal())
	a.NoError(err)
	a.Equal(c1.EndpointAddress, c2.EndpointAddress)
	a.Equal(c1.SnapshotInterval, c2.SnapshotInterval)
	a.Equal(GetDefaultLocal().BaseLoggerDebugLevel, c2.BaseLoggerDebugLevel)
}

func TestSaveToFileOnlyNonDefaults(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	filename := filepath.Join(t.TempDir(), "config.json")
	cfg := GetDefaultLocal()
	cfg.SnapshotS3Bucket = "arbiter-snapshots"
	a.NoError(cfg.SaveToFile(filename))

	content, err := os.ReadFile(filename)
	a.NoError(err)
	a.Contains(string(content), "SnapshotS3Bucket")
	a.Contains(string(content), "Version")
	a.NotContains(string(content), "EndpointAddress")
}

func TestGetNonDefaultConfigValues(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	cfg := GetDefaultLocal()

	// set 4 non-default values
	cfg.Archival = true
	cfg.EnableMetricReporting = true
	cfg.SnapshotInterval = 1000
	cfg.LogFileDir = "/tmp/logs"

	// ask for 2 of them
	ndmap := GetNonDefaultConfigValues(cfg, []string{"Archival", "SnapshotInterval"})

	// assert correct
	expected := map[string]interface{}{
		"Archival":         true,
		"SnapshotInterval": uint64(1000),
	}
	a.Equal(expected, ndmap)

	// ask for field that doesn't exist: should skip
	a.Equal(expected, GetNonDefaultConfigValues(cfg, []string{"Blah", "Archival", "SnapshotInterval"}))

	// check unmodified defaults
	a.Empty(GetNonDefaultConfigValues(GetDefaultLocal(), []string{"Archival", "SnapshotInterval"}))
}

func TestResolveLogPaths(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	cfg := GetDefaultLocal()
	liveLog, archive := cfg.ResolveLogPaths("root")
	a.Equal(filepath.Join("root", "node.log"), liveLog)
	a.Equal(filepath.Join("root", "node.archive.log"), archive)

	cfg.LogFileDir = "elsewhere"
	liveLog, archive = cfg.ResolveLogPaths("root")
	a.Equal(filepath.Join("elsewhere", "node.log"), liveLog)
	a.Equal(filepath.Join("elsewhere", "node.archive.log"), archive)
}

func TestAdjustConnectionLimits(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	cfg := GetDefaultLocal()
	a.False(cfg.AdjustConnectionLimits(1000, 10000))

	// not enough descriptors: hard limit gives up the difference
	cfg = GetDefaultLocal()
	a.True(cfg.AdjustConnectionLimits(cfg.RestConnectionsHardLimit+cfg.ReservedFDs, cfg.ReservedFDs+100))
	a.Equal(uint64(100), cfg.RestConnectionsHardLimit)
	a.LessOrEqual(cfg.RestConnectionsSoftLimit, cfg.RestConnectionsHardLimit)
}
