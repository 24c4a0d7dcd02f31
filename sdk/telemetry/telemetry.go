// Package telemetry carries per-request trace identifiers through a context.
package telemetry

import (
	"context"
	"net/http"

	"github.com/jrazmi/taskforge/sdk/cryptids"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
)

// TraceHeader is honoured on inbound requests and echoed on responses.
const TraceHeader = "X-Request-ID"

const noTrace = "--------NOTRACE--------"

type Telemetry struct{}

// Creates a new telemetry instance
func NewTelemetry() Telemetry {
	return Telemetry{}
}

func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	tid, err := cryptids.New()
	if err != nil {
		return context.WithValue(ctx, traceIDKey, noTrace)
	}
	return context.WithValue(ctx, traceIDKey, tid)
}

// SetTraceIDFromRequest reuses a caller supplied request id when present.
func (t Telemetry) SetTraceIDFromRequest(ctx context.Context, r *http.Request) context.Context {
	if rid := r.Header.Get(TraceHeader); rid != "" && len(rid) <= 64 {
		return context.WithValue(ctx, traceIDKey, rid)
	}
	return t.SetTraceID(ctx)
}

func (t Telemetry) GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return noTrace
	}

	return v
}

// TraceID is a logger-friendly accessor returning "" when no trace is set.
func TraceID(ctx context.Context) string {
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}
