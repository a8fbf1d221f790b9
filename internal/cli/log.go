package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// timeRound is the precision durations are rounded to before display.
const timeRound = time.Millisecond

// newLogger creates the CLI logger writing to w at the given level.
// Timestamps render as "HH:MM:SS.cc".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ctxKey keeps this package's context values collision-free.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches a logger to ctx for retrieval by subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default()
// when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
