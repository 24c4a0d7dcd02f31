package tasksrepobridge

import (
	"net/http"
	"strings"
	"time"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/validation"
)

// PARAMS
type QueryParams struct {
	Page        string
	Limit       string
	SortBy      string
	Order       string
	AssignedTo  string
	Status      string
	Priority    string
	DueDateFrom string
	DueDateTo   string
}

func parseQueryParams(r *http.Request) QueryParams {
	q := r.URL.Query()
	return QueryParams{
		Page:        q.Get("page"),
		Limit:       q.Get("limit"),
		SortBy:      q.Get("sortBy"),
		Order:       q.Get("order"),
		AssignedTo:  strings.TrimSpace(q.Get("assignedTo")),
		Status:      q.Get("status"),
		Priority:    q.Get("priority"),
		DueDateFrom: q.Get("dueDateFrom"),
		DueDateTo:   q.Get("dueDateTo"),
	}
}

// FILTER

// parseFilter scopes the listing to the actor first: non-admins only ever
// see their own tasks and assignedTo is honoured for admins alone.
func parseFilter(qp QueryParams, actor access.Actor) (tasksrepo.QueryFilter, error) {
	filter := tasksrepo.QueryFilter{
		AssignedTo: access.ScopeOwner(actor, qp.AssignedTo),
	}

	if qp.Status != "" {
		filter.Status = &qp.Status
	}
	if qp.Priority != "" {
		filter.Priority = &qp.Priority
	}

	if qp.DueDateFrom != "" {
		t, err := parseBound("dueDateFrom", qp.DueDateFrom)
		if err != nil {
			return filter, err
		}
		filter.DueDateFrom = &t
	}
	if qp.DueDateTo != "" {
		t, err := parseBound("dueDateTo", qp.DueDateTo)
		if err != nil {
			return filter, err
		}
		filter.DueDateTo = &t
	}

	return filter, nil
}

func parseBound(name, value string) (time.Time, error) {
	t, err := validation.ParseFlexibleDate(value)
	if err != nil {
		return time.Time{}, errs.Newf(errs.InvalidArgument, "invalid %s: %q", name, value)
	}
	return t, nil
}

// PATH
type queryPath struct {
	TaskID     string
	DocumentID string
}

func parsePath(r *http.Request) queryPath {
	return queryPath{
		TaskID:     web.Param(r, "task_id"),
		DocumentID: web.Param(r, "doc_id"),
	}
}

// ORDER
var orderByFields = map[string]string{
	"createdAt": tasksrepo.OrderByCreatedAt,
	"updatedAt": tasksrepo.OrderByUpdatedAt,
	"dueDate":   tasksrepo.OrderByDueDate,
	"priority":  tasksrepo.OrderByPriority,
	"status":    tasksrepo.OrderByStatus,
	"title":     tasksrepo.OrderByTitle,
}

// parseOrderBy never fails; an unknown sortBy lists by the default order.
func parseOrderBy(qp QueryParams) fop.By {
	orderBy, err := fop.ParseOrder(orderByFields, qp.SortBy, qp.Order, tasksrepo.DefaultOrderBy)
	if err != nil {
		return tasksrepo.DefaultOrderBy
	}
	return orderBy
}
