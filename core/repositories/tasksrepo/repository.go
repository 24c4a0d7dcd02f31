// Package tasksrepo manages tasks and the attachments embedded in them.
package tasksrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/taskforge/core/repositories"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/sdk/logger"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrInvalidInput     = errors.New("invalid task input")
	ErrTooManyDocuments = fmt.Errorf("a task holds at most %d documents", MaxDocuments)
	ErrDocumentNotFound = errors.New("document not found")
)

// Storer persists task records.
type Storer interface {
	repositories.Store[Task, string, QueryFilter]
	DeleteByOwner(ctx context.Context, ownerID string) ([]Task, error)
}

// Repository provides access to task storage.
type Repository struct {
	log         *logger.Logger
	storer      Storer
	attachments *attachmentsrepo.Repository
	now         func() time.Time
}

// NewRepository creates a new Task repository
func NewRepository(log *logger.Logger, storer Storer, attachments *attachmentsrepo.Repository) *Repository {
	return &Repository{
		log:         log,
		storer:      storer,
		attachments: attachments,
		now:         time.Now,
	}
}

// Create stores the uploads under a freshly minted task id, then inserts the
// record. A failed insert removes the blobs so nothing is left half written.
func (r *Repository) Create(ctx context.Context, input CreateTask, uploads []attachmentsrepo.Upload) (Task, error) {
	if err := input.Validate(); err != nil {
		return Task{}, err
	}
	if len(uploads) > MaxDocuments {
		return Task{}, ErrTooManyDocuments
	}

	now := r.now().UTC()
	taskID := uuid.NewString()

	stored, err := r.attachments.Store(ctx, taskID, uploads)
	if err != nil {
		return Task{}, fmt.Errorf("store attachments: %w", err)
	}

	task := Task{
		TaskID:      taskID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		Documents:   toDocuments(stored, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := r.storer.Create(ctx, task)
	if err != nil {
		r.attachments.Remove(ctx, documentKeys(task.Documents)...)
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	r.log.InfoContext(ctx, "task created", "task_id", created.TaskID, "assigned_to", created.AssignedTo, "documents", len(created.Documents))
	return created, nil
}

// Get returns the task with the given id.
func (r *Repository) Get(ctx context.Context, taskID string) (Task, error) {
	task, err := r.storer.Get(ctx, taskID)
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// List returns one page of tasks matching filter.
func (r *Repository) List(ctx context.Context, filter QueryFilter, orderBy fop.By, page fop.PageOffset) ([]Task, error) {
	tasks, err := r.storer.List(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Count returns how many tasks match filter, ignoring pagination.
func (r *Repository) Count(ctx context.Context, filter QueryFilter) (int, error) {
	n, err := r.storer.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// Update applies input to current, appends any uploads and trims the list to
// the newest MaxDocuments. Dropped documents are reported and their blobs
// removed once the record is saved. Concurrent updates are last write wins.
func (r *Repository) Update(ctx context.Context, current Task, input UpdateTask, uploads []attachmentsrepo.Upload) (UpdateResult, error) {
	if err := input.Validate(); err != nil {
		return UpdateResult{}, err
	}
	if len(uploads) > MaxDocuments {
		return UpdateResult{}, ErrTooManyDocuments
	}

	now := r.now().UTC()

	stored, err := r.attachments.Store(ctx, current.TaskID, uploads, documentKeys(current.Documents)...)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("store attachments: %w", err)
	}
	added := toDocuments(stored, now)

	updated := input.apply(current)
	docs := make([]Document, 0, len(current.Documents)+len(added))
	docs = append(docs, current.Documents...)
	docs = append(docs, added...)
	kept, dropped := capDocuments(docs)
	updated.Documents = kept
	updated.UpdatedAt = now

	saved, err := r.storer.Update(ctx, updated)
	if err != nil {
		r.attachments.Remove(ctx, documentKeys(added)...)
		return UpdateResult{}, fmt.Errorf("update task: %w", err)
	}

	if len(dropped) > 0 {
		r.attachments.Remove(ctx, documentKeys(dropped)...)
		r.log.InfoContext(ctx, "task documents dropped", "task_id", saved.TaskID, "dropped", len(dropped))
	}

	return UpdateResult{Task: saved, DroppedDocuments: dropped}, nil
}

// Delete removes the task, then its blobs. Blob cleanup is best effort.
func (r *Repository) Delete(ctx context.Context, task Task) error {
	if err := r.storer.Delete(ctx, task.TaskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	r.attachments.Remove(ctx, documentKeys(task.Documents)...)
	r.log.InfoContext(ctx, "task deleted", "task_id", task.TaskID)
	return nil
}

// DeleteByOwner removes every task owned by ownerID along with their blobs.
// It runs before a user is removed so no attachment outlives its owner.
func (r *Repository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	tasks, err := r.storer.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete tasks by owner: %w", err)
	}

	for _, t := range tasks {
		r.attachments.Remove(ctx, documentKeys(t.Documents)...)
	}
	if len(tasks) > 0 {
		r.log.InfoContext(ctx, "owner tasks deleted", "owner_id", ownerID, "count", len(tasks))
	}
	return len(tasks), nil
}

// OpenDocument resolves an attachment of task for download.
func (r *Repository) OpenDocument(ctx context.Context, task Task, documentID string) (Document, attachmentsrepo.Retrieval, error) {
	doc, ok := task.Document(documentID)
	if !ok {
		return Document{}, attachmentsrepo.Retrieval{}, ErrDocumentNotFound
	}

	ret, err := r.attachments.Retrieve(ctx, doc.Path)
	if err != nil {
		if errors.Is(err, attachmentsrepo.ErrNotFound) {
			return Document{}, attachmentsrepo.Retrieval{}, fmt.Errorf("%w: blob missing", ErrDocumentNotFound)
		}
		return Document{}, attachmentsrepo.Retrieval{}, err
	}

	return doc, ret, nil
}

func toDocuments(files []attachmentsrepo.StoredFile, at time.Time) []Document {
	docs := make([]Document, len(files))
	for i, f := range files {
		docs[i] = Document{
			DocumentID: uuid.NewString(),
			Filename:   f.Filename,
			Path:       f.Key,
			Size:       f.Size,
			MimeType:   f.ContentType,
			UploadedAt: at,
		}
	}
	return docs
}

func documentKeys(docs []Document) []string {
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.Path
	}
	return keys
}
