package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-arbiter/config"
)

func TestGetObjectProperty(t *testing.T) {
	cfg := config.GetDefaultLocal()
	cfg.EndpointAddress = "127.0.0.1:8080"

	testcases := []struct {
		property string
		expected string
	}{
		{
			property: "EndpointAddress",
			expected: "127.0.0.1:8080",
		},
		{
			property: "Archival",
			expected: "false",
		},
		{
			property: "BaseLoggerDebugLevel",
			expected: "4",
		},
		{
			property: "SnapshotInterval",
			expected: "0",
		},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("test %d", i), func(t *testing.T) {
			val, err := getObjectProperty(cfg, tc.property)
			require.NoError(t, err)
			var buf bytes.Buffer
			fmt.Fprintf(&buf, "%v", val)
			assert.Equal(t, tc.expected, buf.String())
		})
	}

	_, err := getObjectProperty(cfg, "NoSuchProperty")
	assert.Error(t, err)
}
