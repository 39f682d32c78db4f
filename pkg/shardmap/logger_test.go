package shardmap

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_InfoWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	NewZerologLogger().Info(ctx, "refresh ok", "stream", "orders", "shards", 3)

	out := buf.String()
	assert.Contains(t, out, `"message":"refresh ok"`)
	assert.Contains(t, out, `"stream":"orders"`)
	assert.Contains(t, out, `"shards":3`)
}

func TestZerologLogger_ErrorIncludesErrField(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	NewZerologLogger().Error(ctx, errors.New("boom"), "refresh failed")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"message":"refresh failed"`)
}

func TestZerologLogger_OddKVPairsDropLast(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	require.NotPanics(t, func() {
		NewZerologLogger().Info(ctx, "msg", "dangling")
	})

	out := buf.String()
	assert.NotContains(t, out, "dangling")
}
