package tasksrepobridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/sdk/validation"
)

// MarshalToBridge converts a core task to its wire shape.
func MarshalToBridge(task tasksrepo.Task) Task {
	return Task{
		ID:          task.TaskID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     validation.FormatTimePtr(task.DueDate),
		AssignedTo:  task.AssignedTo,
		Documents:   marshalDocuments(task.Documents),
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// MarshalListToBridge converts a list of core tasks.
func MarshalListToBridge(tasks []tasksrepo.Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = MarshalToBridge(t)
	}
	return out
}

func marshalDocuments(docs []tasksrepo.Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = Document{
			ID:         d.DocumentID,
			Filename:   d.Filename,
			Size:       d.Size,
			MimeType:   d.MimeType,
			UploadedAt: d.UploadedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}

// MarshalCreateToRepository builds a create request. The owner is resolved
// from the actor; only admins may create on behalf of someone else.
func MarshalCreateToRepository(input TaskInput, actor access.Actor) (tasksrepo.CreateTask, error) {
	c := tasksrepo.CreateTask{
		Title:       deref(input.Title),
		Description: deref(input.Description),
		Status:      deref(input.Status),
		Priority:    deref(input.Priority),
		AssignedTo:  access.OwnerForCreate(actor, strings.TrimSpace(deref(input.AssignedTo))),
	}
	if input.DueDate != nil && strings.TrimSpace(*input.DueDate) != "" {
		due, err := parseDueDate(*input.DueDate)
		if err != nil {
			return tasksrepo.CreateTask{}, err
		}
		c.DueDate = &due
	}
	return c, nil
}

// MarshalUpdateToRepository builds an update request. An empty dueDate
// clears the date. assignedTo is ignored unless the actor may reassign.
func MarshalUpdateToRepository(input TaskInput, actor access.Actor) (tasksrepo.UpdateTask, error) {
	u := tasksrepo.UpdateTask{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
	}
	if input.DueDate != nil {
		if strings.TrimSpace(*input.DueDate) == "" {
			u.ClearDueDate = true
		} else {
			due, err := parseDueDate(*input.DueDate)
			if err != nil {
				return tasksrepo.UpdateTask{}, err
			}
			u.DueDate = &due
		}
	}
	if input.AssignedTo != nil && access.CanReassign(actor) {
		u.AssignedTo = validation.TrimPtr(input.AssignedTo)
	}
	return u, nil
}

func parseDueDate(s string) (time.Time, error) {
	t, err := validation.ParseFlexibleDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dueDate: %w", tasksrepo.ErrInvalidInput, err)
	}
	return t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
