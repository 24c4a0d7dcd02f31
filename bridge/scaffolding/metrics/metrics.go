// Package metrics publishes request counters through expvar.
package metrics

import (
	"context"
	"expvar"
	"runtime"
)

// The counters are process wide; expvar panics on duplicate names, so they
// are registered once.
var m = struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	rejected   *expvar.Int
	panics     *expvar.Int
}{
	goroutines: expvar.NewInt("goroutines"),
	requests:   expvar.NewInt("requests"),
	errors:     expvar.NewInt("errors"),
	rejected:   expvar.NewInt("rejected"),
	panics:     expvar.NewInt("panics"),
}

type ctxKey int

const key ctxKey = 1

// Set marks the context as metered.
func Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, true)
}

func metered(ctx context.Context) bool {
	v, _ := ctx.Value(key).(bool)
	return v
}

// AddGoroutines samples the goroutine count.
func AddGoroutines(ctx context.Context) int64 {
	if !metered(ctx) {
		return 0
	}
	g := int64(runtime.NumGoroutine())
	m.goroutines.Set(g)
	return g
}

// AddRequests increments the request count.
func AddRequests(ctx context.Context) int64 {
	if !metered(ctx) {
		return 0
	}
	m.requests.Add(1)
	return m.requests.Value()
}

// AddErrors increments the server error count.
func AddErrors(ctx context.Context) int64 {
	if !metered(ctx) {
		return 0
	}
	m.errors.Add(1)
	return m.errors.Value()
}

// AddRejected increments the count of requests refused with a 4xx.
func AddRejected(ctx context.Context) int64 {
	if !metered(ctx) {
		return 0
	}
	m.rejected.Add(1)
	return m.rejected.Value()
}

// AddPanics increments the panic count.
func AddPanics(ctx context.Context) int64 {
	if !metered(ctx) {
		return 0
	}
	m.panics.Add(1)
	return m.panics.Value()
}
