package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jrazmi/taskforge/sdk/logger"
)

type ctxKey struct{}

func TestTraceIDIsStamped(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(
		logger.WithOutput(&buf),
		logger.WithService("taskforge"),
		logger.WithTraceID(func(ctx context.Context) string {
			v, _ := ctx.Value(ctxKey{}).(string)
			return v
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "trace-123")
	log.InfoContextf(ctx, "hello %s", "world")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if rec["msg"] != "hello world" {
		t.Errorf("msg = %v, want hello world", rec["msg"])
	}
	if rec["trace_id"] != "trace-123" {
		t.Errorf("trace_id = %v, want trace-123", rec["trace_id"])
	}
	if rec["service"] != "taskforge" {
		t.Errorf("service = %v, want taskforge", rec["service"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf), logger.WithLevel("WARN"))

	log.DebugContext(context.Background(), "quiet")
	log.InfoContext(context.Background(), "quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below WARN, got %q", buf.String())
	}

	log.WarnContext(context.Background(), "loud")
	if buf.Len() == 0 {
		t.Fatal("expected WARN record to be written")
	}
}
