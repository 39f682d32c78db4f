package debugserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkit/producer/pkg/shardmap"
)

type fakeSnapshotSource struct {
	state     shardmap.State
	updatedAt time.Time
}

func (f fakeSnapshotSource) State() shardmap.State { return f.state }
func (f fakeSnapshotSource) UpdatedAt() time.Time  { return f.updatedAt }

func TestHealthz_ReadyReturns200(t *testing.T) {
	now := time.Now()
	h := New("test", fakeSnapshotSource{state: shardmap.StateReady, updatedAt: now}, func() []shardmap.Shard { return nil }, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "READY", body["state"])
}

func TestHealthz_NotReadyReturns503(t *testing.T) {
	h := New("test", fakeSnapshotSource{state: shardmap.StateUpdating}, func() []shardmap.Shard { return nil }, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDebugShards_DumpsSnapshot(t *testing.T) {
	parent := shardmap.ShardId(1)
	shards := []shardmap.Shard{
		{
			ShardID: shardmap.ShardId(2),
			HashKeyRange: shardmap.HashKeyRange{
				Start: shardmap.HashKeyFromUint64(0),
				End:   shardmap.HashKeyFromUint64(99),
			},
			ParentShardID: &parent,
			SequenceNumberRange: shardmap.SequenceNumberRange{
				StartingSequenceNumber: "100",
			},
		},
	}

	h := New("test", fakeSnapshotSource{state: shardmap.StateReady}, func() []shardmap.Shard { return shards }, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/shards", nil)
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		State  string  `json:"state"`
		Shards []Shard `json:"shards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Shards, 1)
	assert.Equal(t, "shardId-000000000002", body.Shards[0].ID)
	assert.Equal(t, "shardId-000000000001", body.Shards[0].ParentID)
	assert.True(t, body.Shards[0].Open)
}
