package validation_test

import (
	"testing"
	"time"

	"github.com/jrazmi/taskforge/sdk/validation"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-03-01T10:30:00Z", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-03-01T10:30:00.250Z", time.Date(2025, 3, 1, 10, 30, 0, 250000000, time.UTC)},
		{"2025-03-01T12:00:00+02:00", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{" 03/15/2025 ", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := validation.ParseFlexibleDate(tt.in)
		if err != nil {
			t.Fatalf("ParseFlexibleDate(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := validation.ParseFlexibleDate("next tuesday"); err == nil {
		t.Error("expected error for unparsable date")
	}
}

func TestIsEmail(t *testing.T) {
	if !validation.IsEmail("ada@example.com") {
		t.Error("expected ada@example.com to be valid")
	}
	for _, bad := range []string{"", "ada", "Ada <ada@example.com>", "ada@"} {
		if validation.IsEmail(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}

func TestJSONFieldRoundTrip(t *testing.T) {
	in := validation.JSONField[[]string]{Data: []string{"a", "b"}}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	var out validation.JSONField[[]string]
	if err := out.Scan(v); err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	if len(out.Data) != 2 || out.Data[1] != "b" {
		t.Errorf("got %v", out.Data)
	}
	if err := out.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
