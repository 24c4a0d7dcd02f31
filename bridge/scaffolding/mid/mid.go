// Package mid provides app level middleware support.
package mid

import (
	"context"

	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/infrastructure/web"
)

type ctxKey int

const (
	actorKey ctxKey = iota + 1
)

func setActor(ctx context.Context, a access.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// GetActor returns the authenticated caller.
func GetActor(ctx context.Context) (access.Actor, error) {
	v, ok := ctx.Value(actorKey).(access.Actor)
	if !ok {
		return access.Actor{}, access.ErrUnauthenticated
	}
	return v, nil
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}
