package main

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/test/partitiontest"
)

func Test_getConfigForArg(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	t.Run("invalid config test", func(t *testing.T) {
		t.Parallel()
		_, err := getConfigForArg("invalid")

		var names []string
		for name := range profileNames {
			names = append(names, name)
		}
		sort.Strings(names)
		require.ErrorContains(t, err, strings.Join(names, ", "))
	})

	t.Run("valid config test", func(t *testing.T) {
		t.Parallel()
		cfg, err := getConfigForArg("auditor")
		require.NoError(t, err)
		require.True(t, cfg.EnableSignedSubmissions)
		require.True(t, cfg.Archival)
	})

	t.Run("archival profile", func(t *testing.T) {
		t.Parallel()
		cfg, err := getConfigForArg("archival")
		require.NoError(t, err)
		require.True(t, cfg.Archival)
		require.Equal(t, uint64(1024), cfg.SnapshotInterval)
	})
}
