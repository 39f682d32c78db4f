// Package debugserver exposes a ShardMap's internal state over HTTP: a
// liveness probe, a JSON dump of the shard cache for operator introspection
// (the lookup index itself is not dumped), and (optionally) a Prometheus
// scrape endpoint.
// It exists for the demo CLI and for ad-hoc debugging; production callers
// are expected to embed the ShardMap library directly rather than poll this
// surface.
package debugserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	promclient "github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
	"github.com/rs/zerolog"

	promgatherer "github.com/prometheus/client_golang/prometheus"

	"github.com/streamkit/producer/pkg/shardmap"
)

// snapshotSource is the subset of *shardmap.ShardMap the debug server reads
// from. Declaring it as an interface keeps this package testable without a
// live topology client.
type snapshotSource interface {
	State() shardmap.State
	UpdatedAt() time.Time
}

// Shard is the JSON shape of one entry in the /debug/shards response.
type Shard struct {
	ID         string `json:"id"`
	StartHex   string `json:"start_hash_key"`
	EndHex     string `json:"end_hash_key"`
	Open       bool   `json:"open"`
	ParentID   string `json:"parent_shard_id,omitempty"`
	SequenceLo string `json:"starting_sequence_number"`
	SequenceHi string `json:"ending_sequence_number,omitempty"`
}

// SnapshotFunc returns the shards currently known to a ShardMap, in no
// particular order. The demo CLI supplies one backed by the real ShardMap; tests can
// supply a canned slice instead.
type SnapshotFunc func() []shardmap.Shard

// New builds the debug HTTP handler. serviceName is used for otelchi span
// naming. /metrics is served only when gatherer is non-nil.
func New(serviceName string, sm snapshotSource, snapshot SnapshotFunc, gatherer promgatherer.Gatherer) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(otelchi.Middleware(serviceName))
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthHandler(sm))
	router.Get("/debug/shards", shardsHandler(sm, snapshot))

	if gatherer != nil {
		router.Handle("/metrics", promclient.HandlerFor(gatherer, promclient.HandlerOpts{}))
	}

	return router
}

// requestLogger logs one line per request via zerolog.Ctx, matching the
// context-scoped logging convention pkg/shardmap's Logger collaborator uses.
func requestLogger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("debug request")
	}

	return http.HandlerFunc(fn)
}

func healthHandler(sm snapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := sm.State()

		w.Header().Set("Content-Type", "application/json")

		if state != shardmap.StateReady {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"state":      state.String(),
			"updated_at": sm.UpdatedAt(),
		})
	}
}

func shardsHandler(sm snapshotSource, snapshot SnapshotFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shards := snapshot()

		out := make([]Shard, 0, len(shards))

		for _, s := range shards {
			entry := Shard{
				ID:         s.ShardID.String(),
				StartHex:   s.HashKeyRange.Start.Big().Text(16),
				EndHex:     s.HashKeyRange.End.Big().Text(16),
				Open:       s.Open(),
				SequenceLo: s.SequenceNumberRange.StartingSequenceNumber,
				SequenceHi: s.SequenceNumberRange.EndingSequenceNumber,
			}

			if s.ParentShardID != nil {
				entry.ParentID = s.ParentShardID.String()
			}

			out = append(out, entry)
		}

		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"state":  sm.State().String(),
			"shards": out,
		})
	}
}
