package fop

import (
	"fmt"
	"strings"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// By is a validated ordering: Field is a storage column, never raw input.
type By struct {
	Field     string
	Direction string
}

// NewBy constructs a By.
func NewBy(field, direction string) By {
	return By{Field: field, Direction: direction}
}

// ParseOrder maps an API sort field onto a storage column using
// fieldMappings. Direction is ascending only for "asc" (any case) and
// descending for anything else. An empty sortBy yields defaultOrder.
func ParseOrder(fieldMappings map[string]string, sortBy, order string, defaultOrder By) (By, error) {
	direction := DESC
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		direction = ASC
	}

	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		if order == "" {
			return defaultOrder, nil
		}
		return By{Field: defaultOrder.Field, Direction: direction}, nil
	}

	field, ok := fieldMappings[sortBy]
	if !ok {
		return defaultOrder, fmt.Errorf("unknown sort field %q", sortBy)
	}

	return By{Field: field, Direction: direction}, nil
}
