package shardmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOtelMetricsSink_RecordsWithoutError(t *testing.T) {
	sink, err := NewOtelMetricsSink()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		sink.RefreshAttempted()
		sink.RefreshSucceeded(3)
		sink.RefreshFailed()
	})
}
