package execcmd

import (
	"context"

	"github.com/edygar/interval/logger"
)

type contextKey int

const (
	contextKeyLogger contextKey = iota
	contextKeyTick
)

type Logger = logger.Logger

// WithTick annotates commands started with ctx with the runner's tick number.
func WithTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, contextKeyTick, tick)
}

func getTick(ctx context.Context) (uint64, bool) {
	tick, ok := ctx.Value(contextKeyTick).(uint64)
	return tick, ok
}

func WithLogger(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, log)
}

func getLogger(ctx context.Context) Logger {
	l, ok := ctx.Value(contextKeyLogger).(Logger)
	if !ok {
		l = logger.NewNullLogger()
	}
	if tick, ok := getTick(ctx); ok {
		l = l.WithField("tick", tick)
	}
	return l
}
