package tasksrepo

import "github.com/jrazmi/taskforge/core/scaffolding/fop"

// Storage columns a listing may be ordered by.
const (
	OrderByPK        = "task_id"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
	OrderByDueDate   = "due_date"
	OrderByPriority  = "priority"
	OrderByStatus    = "status"
	OrderByTitle     = "title"
)

// DefaultOrderBy lists newest tasks first.
var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.DESC)
