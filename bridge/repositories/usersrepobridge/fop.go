package usersrepobridge

import (
	"net/http"
	"strings"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/infrastructure/web"
)

// PARAMS
type QueryParams struct {
	Page   string
	Limit  string
	SortBy string
	Order  string
	Role   string
	Email  string
}

func parseQueryParams(r *http.Request) QueryParams {
	q := r.URL.Query()
	return QueryParams{
		Page:   q.Get("page"),
		Limit:  q.Get("limit"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
		Role:   q.Get("role"),
		Email:  strings.TrimSpace(q.Get("email")),
	}
}

// FILTER
func parseFilter(qp QueryParams) usersrepo.UserFilter {
	filter := usersrepo.UserFilter{}
	if qp.Role != "" {
		filter.Role = &qp.Role
	}
	if qp.Email != "" {
		filter.Email = &qp.Email
	}
	return filter
}

// PATH
type queryPath struct {
	UserID string
}

func parsePath(r *http.Request) queryPath {
	return queryPath{
		UserID: web.Param(r, "user_id"),
	}
}

// ORDER
var orderByFields = map[string]string{
	"createdAt": usersrepo.OrderByCreatedAt,
	"updatedAt": usersrepo.OrderByUpdatedAt,
	"email":     usersrepo.OrderByEmail,
	"role":      usersrepo.OrderByRole,
}

func parseOrderBy(qp QueryParams) fop.By {
	orderBy, err := fop.ParseOrder(orderByFields, qp.SortBy, qp.Order, usersrepo.DefaultOrderBy)
	if err != nil {
		return usersrepo.DefaultOrderBy
	}
	return orderBy
}
