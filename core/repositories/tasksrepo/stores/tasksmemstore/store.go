// Package tasksmemstore is an in-process task store. It backs the service
// when it runs without a database and doubles as the test store.
package tasksmemstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
)

// Store implements tasksrepo.Storer in memory.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]tasksrepo.Task
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]tasksrepo.Task)}
}

func (s *Store) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.TaskID]; ok {
		return tasksrepo.Task{}, fmt.Errorf("task %s already exists", task.TaskID)
	}
	s.tasks[task.TaskID] = clone(task)
	return clone(task), nil
}

func (s *Store) Get(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return tasksrepo.Task{}, tasksrepo.ErrNotFound
	}
	return clone(t), nil
}

func (s *Store) List(ctx context.Context, filter tasksrepo.QueryFilter, orderBy fop.By, page fop.PageOffset) ([]tasksrepo.Task, error) {
	s.mu.RLock()
	matched := s.match(filter)
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b tasksrepo.Task) int {
		c := compareField(a, b, orderBy.Field)
		if c == 0 {
			c = strings.Compare(a.TaskID, b.TaskID)
		}
		if orderBy.Direction == fop.DESC {
			return -c
		}
		return c
	})

	start := page.Offset()
	if start >= len(matched) {
		return []tasksrepo.Task{}, nil
	}
	end := min(start+page.Limit, len(matched))
	return matched[start:end], nil
}

func (s *Store) Count(ctx context.Context, filter tasksrepo.QueryFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.match(filter)), nil
}

func (s *Store) Update(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.TaskID]; !ok {
		return tasksrepo.Task{}, tasksrepo.ErrNotFound
	}
	s.tasks[task.TaskID] = clone(task)
	return clone(task), nil
}

func (s *Store) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return tasksrepo.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) ([]tasksrepo.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []tasksrepo.Task
	for id, t := range s.tasks {
		if t.AssignedTo == ownerID {
			deleted = append(deleted, t)
			delete(s.tasks, id)
		}
	}
	return deleted, nil
}

// match must be called with the lock held.
func (s *Store) match(f tasksrepo.QueryFilter) []tasksrepo.Task {
	out := make([]tasksrepo.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.AssignedTo != nil && t.AssignedTo != *f.AssignedTo {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if f.DueDateFrom != nil && (t.DueDate == nil || t.DueDate.Before(*f.DueDateFrom)) {
			continue
		}
		if f.DueDateTo != nil && (t.DueDate == nil || t.DueDate.After(*f.DueDateTo)) {
			continue
		}
		out = append(out, clone(t))
	}
	return out
}

// compareField orders missing due dates after present ones, as Postgres
// does for NULLs.
func compareField(a, b tasksrepo.Task, field string) int {
	switch field {
	case tasksrepo.OrderByPK:
		return strings.Compare(a.TaskID, b.TaskID)
	case tasksrepo.OrderByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case tasksrepo.OrderByDueDate:
		return compareTimePtr(a.DueDate, b.DueDate)
	case tasksrepo.OrderByPriority:
		return cmp.Compare(a.Priority, b.Priority)
	case tasksrepo.OrderByStatus:
		return cmp.Compare(a.Status, b.Status)
	case tasksrepo.OrderByTitle:
		return cmp.Compare(a.Title, b.Title)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func clone(t tasksrepo.Task) tasksrepo.Task {
	t.Documents = slices.Clone(t.Documents)
	if t.Documents == nil {
		t.Documents = []tasksrepo.Document{}
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
