// Package repositories holds contracts shared by every repository package.
package repositories

import (
	"context"
	"errors"

	"github.com/jrazmi/taskforge/core/scaffolding/fop"
)

var (
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrNotFound              = errors.New("record not found")
)

// Store is the CRUD surface every record store implements. Create and Update
// receive the full record; repositories own ids, defaults and timestamps.
type Store[T any, ID comparable, F any] interface {
	Create(ctx context.Context, record T) (T, error)
	Get(ctx context.Context, id ID) (T, error)
	List(ctx context.Context, filter F, orderBy fop.By, page fop.PageOffset) ([]T, error)
	Count(ctx context.Context, filter F) (int, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id ID) error
}
