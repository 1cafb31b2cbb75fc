package debugctx

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	t.Parallel()

	buffer := &bytes.Buffer{}
	ctx := WithLogger(context.Background(), NewLogger(buffer, LevelRequest))

	Logger(ctx).Info("cache refreshed", "collection", "srvs")
	Printf(ctx, "http request method=%q", "GET")
	Logger(ctx).V(LevelCache).Info("dropped")

	output := buffer.String()
	if !strings.Contains(output, `"msg"="cache refreshed" "collection"="srvs"`) {
		t.Fatalf("expected structured info line, got %q", output)
	}
	if !strings.Contains(output, `http request method=\"GET\"`) {
		t.Fatalf("expected printf line, got %q", output)
	}
	if strings.Contains(output, "dropped") {
		t.Fatalf("expected entries above verbosity to be dropped, got %q", output)
	}
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if !strings.HasPrefix(line, "debug: ") {
			t.Fatalf("expected debug prefix, got %q", line)
		}
	}
}

func TestLoggerWithoutContextValueDiscards(t *testing.T) {
	t.Parallel()

	if Logger(nil).Enabled() {
		t.Fatalf("expected discard logger for nil context")
	}
	if Logger(context.Background()).Enabled() {
		t.Fatalf("expected discard logger for empty context")
	}
	Printf(context.Background(), "no panic without logger")
}

func TestNewLoggerWithNilWriter(t *testing.T) {
	t.Parallel()

	if NewLogger(nil, LevelCache).Enabled() {
		t.Fatalf("expected nil writer to discard")
	}
}

func TestNewLoggerOffDropsWarnings(t *testing.T) {
	t.Parallel()

	buffer := &bytes.Buffer{}
	logger := NewLogger(buffer, LevelOff)
	logger.V(LevelWarn).Info("cache store write failed")

	if buffer.Len() != 0 {
		t.Fatalf("expected no output, got %q", buffer.String())
	}
}
