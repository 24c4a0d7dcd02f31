// Package fopbridge holds the response envelopes shared by the bridges.
package fopbridge

import (
	"encoding/json"

	"github.com/jrazmi/taskforge/core/scaffolding/fop"
)

// PageResponse is one page of a filtered listing. Total ignores paging.
type PageResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPageResponse builds a page envelope. A nil items slice encodes as [].
func NewPageResponse[T any](items []T, total int, page fop.PageOffset) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		Items: items,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}
}

// Encode implements the encoder interface.
func (p PageResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

