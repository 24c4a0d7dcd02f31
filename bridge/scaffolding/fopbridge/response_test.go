package fopbridge_test

import (
	"testing"

	"github.com/jrazmi/taskforge/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
)

func TestPageResponseEncode(t *testing.T) {
	resp := fopbridge.NewPageResponse[string](nil, 0, fop.PageOffset{Page: 2, Limit: 5})
	data, ct, err := resp.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if string(data) != `{"items":[],"total":0,"page":2,"limit":5}` {
		t.Errorf("body = %s", data)
	}
}
