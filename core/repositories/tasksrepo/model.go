package tasksrepo

import (
	"fmt"
	"strings"
	"time"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// MaxDocuments is the most attachments a task may carry.
const MaxDocuments = 3

// Document is an attachment embedded in its task. It is persisted as JSON.
type Document struct {
	DocumentID string    `json:"id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimetype"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Task is a unit of work owned by one user.
type Task struct {
	TaskID      string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	AssignedTo  string
	Documents   []Document
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTask is the validated input for a new task. Zero values take
// defaults.
type CreateTask struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	AssignedTo  string
}

// UpdateTask changes only the fields that are set.
type UpdateTask struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
	AssignedTo   *string
}

// UpdateResult is an updated task plus any documents pushed out by the
// attachment cap.
type UpdateResult struct {
	Task             Task
	DroppedDocuments []Document
}

// QueryFilter narrows a task listing. Nil fields do not filter.
type QueryFilter struct {
	AssignedTo  *string
	Status      *string
	Priority    *string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// ValidateStatus checks s against the known statuses.
func ValidateStatus(s string) error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return nil
	}
	return fmt.Errorf("%w: status must be one of %s, %s, %s", ErrInvalidInput, StatusPending, StatusInProgress, StatusCompleted)
}

// ValidatePriority checks p against the known priorities.
func ValidatePriority(p string) error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}
	return fmt.Errorf("%w: priority must be one of %s, %s, %s", ErrInvalidInput, PriorityLow, PriorityMedium, PriorityHigh)
}

// Validate normalises and checks a create request.
func (c *CreateTask) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if err := ValidateStatus(c.Status); err != nil {
		return err
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if err := ValidatePriority(c.Priority); err != nil {
		return err
	}
	if c.AssignedTo == "" {
		return fmt.Errorf("%w: task owner is required", ErrInvalidInput)
	}
	return nil
}

// Validate normalises and checks an update request.
func (u *UpdateTask) Validate() error {
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		if t == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		u.Title = &t
	}
	if u.Status != nil {
		if err := ValidateStatus(*u.Status); err != nil {
			return err
		}
	}
	if u.Priority != nil {
		if err := ValidatePriority(*u.Priority); err != nil {
			return err
		}
	}
	if u.AssignedTo != nil && *u.AssignedTo == "" {
		return fmt.Errorf("%w: task owner cannot be empty", ErrInvalidInput)
	}
	return nil
}

// apply folds u into t.
func (u UpdateTask) apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	switch {
	case u.ClearDueDate:
		t.DueDate = nil
	case u.DueDate != nil:
		d := *u.DueDate
		t.DueDate = &d
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
	return t
}

// Document returns the attachment with the given id.
func (t Task) Document(documentID string) (Document, bool) {
	for _, d := range t.Documents {
		if d.DocumentID == documentID {
			return d, true
		}
	}
	return Document{}, false
}

// capDocuments keeps the newest MaxDocuments entries, oldest first, and
// returns what was dropped.
func capDocuments(docs []Document) (kept, dropped []Document) {
	if len(docs) <= MaxDocuments {
		return docs, nil
	}
	cut := len(docs) - MaxDocuments
	dropped = append([]Document(nil), docs[:cut]...)
	kept = append([]Document(nil), docs[cut:]...)
	return kept, dropped
}
