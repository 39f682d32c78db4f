package shardmap

import (
	"context"

	"github.com/rs/zerolog"
)

// zerologLogger adapts zerolog.Ctx(ctx) to the Logger collaborator, matching
// the context-scoped logging convention used throughout this tree.
type zerologLogger struct{}

// NewZerologLogger returns the default Logger collaborator, which retrieves
// its zerolog.Logger from the context passed to each call via
// zerolog.Ctx(ctx) rather than holding one fixed at construction time.
func NewZerologLogger() Logger {
	return zerologLogger{}
}

func (zerologLogger) Info(ctx context.Context, msg string, kv ...any) {
	event := zerolog.Ctx(ctx).Info()
	addFields(event, kv)
	event.Msg(msg)
}

func (zerologLogger) Error(ctx context.Context, err error, msg string, kv ...any) {
	event := zerolog.Ctx(ctx).Error().Err(err)
	addFields(event, kv)
	event.Msg(msg)
}

// addFields adds kv (key, value, key, value, ...) pairs to event. Malformed
// (odd-length) input is dropped rather than panicking; logging must never be
// the reason a caller crashes.
func addFields(event *zerolog.Event, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}

		event.Interface(key, kv[i+1])
	}
}
