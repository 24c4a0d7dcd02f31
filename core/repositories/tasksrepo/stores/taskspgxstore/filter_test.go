package taskspgxstore

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/sdk/validation"
)

func TestApplyFilter(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   tasksrepo.QueryFilter
		wantSQL  string
		wantArgs pgx.NamedArgs
	}{
		{
			name:     "empty",
			filter:   tasksrepo.QueryFilter{},
			wantSQL:  "SELECT count(*) FROM tasks",
			wantArgs: pgx.NamedArgs{},
		},
		{
			name: "owner status priority",
			filter: tasksrepo.QueryFilter{
				AssignedTo: validation.Ptr("u1"),
				Status:     validation.Ptr("pending"),
				Priority:   validation.Ptr("high"),
			},
			wantSQL:  "SELECT count(*) FROM tasks WHERE assigned_to = @assigned_to AND status = @status AND priority = @priority",
			wantArgs: pgx.NamedArgs{"assigned_to": "u1", "status": "pending", "priority": "high"},
		},
		{
			name:     "due date range",
			filter:   tasksrepo.QueryFilter{DueDateFrom: &from, DueDateTo: &to},
			wantSQL:  "SELECT count(*) FROM tasks WHERE due_date >= @due_date_from AND due_date <= @due_date_to",
			wantArgs: pgx.NamedArgs{"due_date_from": from, "due_date_to": to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pgx.NamedArgs{}
			buf := bytes.NewBufferString("SELECT count(*) FROM tasks")
			applyFilter(tt.filter, data, buf)

			if buf.String() != tt.wantSQL {
				t.Errorf("sql = %q, want %q", buf.String(), tt.wantSQL)
			}
			if diff := cmp.Diff(tt.wantArgs, data); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRowConversionKeepsDocuments(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task := tasksrepo.Task{
		TaskID:     "t1",
		Title:      "Ship",
		Status:     tasksrepo.StatusPending,
		Priority:   tasksrepo.PriorityHigh,
		AssignedTo: "u1",
		Documents: []tasksrepo.Document{
			{DocumentID: "d1", Filename: "a.pdf", Path: "tasks/t1/1_a.pdf", Size: 10, MimeType: "application/pdf", UploadedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	row := toDBTask(task)
	raw, err := row.Documents.Value()
	if err != nil {
		t.Fatalf("failed to encode documents: %v", err)
	}

	scanned := row
	scanned.Documents = validation.JSONField[[]tasksrepo.Document]{}
	if err := scanned.Documents.Scan(raw); err != nil {
		t.Fatalf("failed to scan documents: %v", err)
	}

	if diff := cmp.Diff(task, toCoreTask(scanned)); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}

	empty := toDBTask(tasksrepo.Task{TaskID: "t2"})
	if v, _ := empty.Documents.Value(); string(v.([]byte)) != "[]" {
		t.Errorf("nil documents must encode as [], got %s", v)
	}
}
