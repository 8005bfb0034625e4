package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/config"
	"github.com/algorand/go-arbiter/test/partitiontest"
)

func TestSetObjectProperty(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	cfg := config.GetDefaultLocal()

	require.NoError(t, setObjectProperty(&cfg, "Archival", "true"))
	require.True(t, cfg.Archival)

	require.NoError(t, setObjectProperty(&cfg, "SnapshotInterval", "512"))
	require.Equal(t, uint64(512), cfg.SnapshotInterval)

	require.NoError(t, setObjectProperty(&cfg, "RestReadTimeoutSeconds", "30"))
	require.Equal(t, 30, cfg.RestReadTimeoutSeconds)

	require.NoError(t, setObjectProperty(&cfg, "EndpointAddress", "0.0.0.0:8080"))
	require.Equal(t, "0.0.0.0:8080", cfg.EndpointAddress)

	require.Error(t, setObjectProperty(&cfg, "Archival", "notabool"))
	require.Error(t, setObjectProperty(&cfg, "SnapshotInterval", "-1"))
	require.Error(t, setObjectProperty(&cfg, "NoSuchProperty", "1"))
}
