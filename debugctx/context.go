package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Verbosity levels used across the module. LevelOff drops every entry.
const (
	LevelOff     = -1
	LevelWarn    = 0
	LevelRequest = 1
	LevelCache   = 2
)

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logr.NewContext(ctx, logger)
}

// Logger returns the logger carried by ctx, or a discarding logger.
func Logger(ctx context.Context) logr.Logger {
	if ctx == nil {
		return logr.Discard()
	}
	return logr.FromContextOrDiscard(ctx)
}

// NewLogger writes one line per entry to writer. Entries above verbosity are
// dropped.
func NewLogger(writer io.Writer, verbosity int) logr.Logger {
	if writer == nil || verbosity < LevelWarn {
		return logr.Discard()
	}

	var mu sync.Mutex
	return funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()

		line := strings.TrimSpace(args)
		if prefix != "" {
			line = prefix + ": " + line
		}
		_, _ = fmt.Fprintf(writer, "debug: %s\n", line)
	}, funcr.Options{Verbosity: verbosity})
}

// Printf logs a formatted message at request verbosity.
func Printf(ctx context.Context, format string, args ...any) {
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}
	Logger(ctx).V(LevelRequest).Info(message)
}
