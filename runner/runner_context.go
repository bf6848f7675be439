package runner

import (
	"context"

	"github.com/edygar/interval/logger"
)

type contextKey int

const (
	contextKeyLogger contextKey = 1 + iota
	contextKeyTick
)

type Logger = logger.Logger

func WithLogger(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, log)
}

func getLogger(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKeyLogger).(Logger); ok {
		return l
	}
	return logger.NewNullLogger()
}

func withTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, contextKeyTick, tick)
}

func getTick(ctx context.Context) (uint64, bool) {
	tick, ok := ctx.Value(contextKeyTick).(uint64)
	return tick, ok
}

// TickFromContext returns the number of the tick a Spawner is called for,
// starting at 1.
func TickFromContext(ctx context.Context) (uint64, bool) {
	return getTick(ctx)
}
