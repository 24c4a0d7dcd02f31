package usersrepo

import "github.com/jrazmi/taskforge/core/scaffolding/fop"

// Storage columns a listing may be ordered by.
const (
	OrderByPK        = "user_id"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
	OrderByEmail     = "email"
	OrderByRole      = "role"
)

// DefaultOrderBy lists newest accounts first.
var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.DESC)
