package postgresdb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// AddWhereClause joins conditions with AND. Nothing is written when there
// are none.
func AddWhereClause(buf *bytes.Buffer, conditions []string) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	buf.WriteString(strings.Join(conditions, " AND "))
}

// AddOrderByClause adds ORDER BY with the primary key as a tie-breaker so
// pages never overlap.
func AddOrderByClause(buf *bytes.Buffer, orderField, pkField, direction string) error {
	quotedOrderField, err := QuoteIdentifier(orderField)
	if err != nil {
		return fmt.Errorf("invalid order field name: %w", err)
	}
	quotedPKField, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field name: %w", err)
	}
	if direction != ASC && direction != DESC {
		return fmt.Errorf("invalid direction: %q", direction)
	}

	fmt.Fprintf(buf, " ORDER BY %s %s", quotedOrderField, direction)
	if orderField != pkField {
		fmt.Fprintf(buf, ", %s %s", quotedPKField, direction)
	}

	return nil
}

// AddLimitOffsetClause adds LIMIT/OFFSET as named arguments.
func AddLimitOffsetClause(limit, offset int, data pgx.NamedArgs, buf *bytes.Buffer) {
	buf.WriteString(" LIMIT @limit OFFSET @offset")
	data["limit"] = limit
	data["offset"] = offset
}
