package shardmap

import (
	"context"
)

// TopologyPage is one page of a paginated topology response.
type TopologyPage struct {
	Shards            []Shard
	ContinuationToken string // empty signals the end of pagination
}

// TopologyRequest describes a single page request. On the first page of a
// refresh, StreamName is set and ContinuationToken is empty; on every
// subsequent page, ContinuationToken is set and StreamName/StreamARN are
// not. MaxResults is set on every page.
type TopologyRequest struct {
	StreamName        string
	StreamARN         string
	ContinuationToken string
	MaxResults        int
}

// TopologyClient is the async paginated RPC collaborator that supplies the
// raw shard topology (§6.1). Implementations must restrict the first page to
// currently open shards ("at latest").
type TopologyClient interface {
	ListShards(ctx context.Context, req TopologyRequest) (TopologyPage, error)
}

// MetricsSink records refresh attempts, successes, failures, and current
// shard count. Implementations must tolerate a nil *MetricsSink value being
// unreachable; callers should use NopMetricsSink{} instead of nil.
type MetricsSink interface {
	RefreshAttempted()
	RefreshSucceeded(shardCount int)
	RefreshFailed()
}

// NopMetricsSink is a MetricsSink that discards everything, used as the
// default when no metrics collaborator is configured.
type NopMetricsSink struct{}

func (NopMetricsSink) RefreshAttempted()    {}
func (NopMetricsSink) RefreshSucceeded(int) {}
func (NopMetricsSink) RefreshFailed()       {}

// Logger is the leveled logging collaborator (§6.1). The core logs at Info on
// state transitions and at Error on inconsistencies and refresh failures.
type Logger interface {
	Info(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, err error, msg string, kv ...any)
}

// NopLogger is a Logger that discards everything.
type NopLogger struct{}

func (NopLogger) Info(context.Context, string, ...any)         {}
func (NopLogger) Error(context.Context, error, string, ...any) {}
