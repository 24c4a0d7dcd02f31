package telemetry_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/jrazmi/taskforge/sdk/telemetry"
)

func TestSetTraceID(t *testing.T) {
	tel := telemetry.NewTelemetry()

	if got := telemetry.TraceID(context.Background()); got != "" {
		t.Fatalf("expected empty trace id, got %q", got)
	}

	ctx := tel.SetTraceID(context.Background())
	if got := tel.GetTraceID(ctx); len(got) == 0 || got == "--------NOTRACE--------" {
		t.Fatalf("expected generated trace id, got %q", got)
	}
}

func TestSetTraceIDFromRequest(t *testing.T) {
	tel := telemetry.NewTelemetry()
	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set(telemetry.TraceHeader, "abc123")

	ctx := tel.SetTraceIDFromRequest(context.Background(), r)
	if got := tel.GetTraceID(ctx); got != "abc123" {
		t.Errorf("trace id = %q, want abc123", got)
	}
}
