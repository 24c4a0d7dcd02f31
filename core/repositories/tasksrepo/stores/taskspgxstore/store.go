// Package taskspgxstore persists tasks in Postgres through pgx.
package taskspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/infrastructure/postgresdb"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/validation"
)

const taskColumns = `task_id, title, description, status, priority, due_date, assigned_to, documents, created_at, updated_at`

// ErrUnknownOwner is returned when assigned_to does not reference a user.
var ErrUnknownOwner = errors.New("assigned user does not exist")

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// dbTask is the row shape; documents live in a JSONB column.
type dbTask struct {
	TaskID      string                                     `db:"task_id"`
	Title       string                                     `db:"title"`
	Description string                                     `db:"description"`
	Status      string                                     `db:"status"`
	Priority    string                                     `db:"priority"`
	DueDate     *time.Time                                 `db:"due_date"`
	AssignedTo  string                                     `db:"assigned_to"`
	Documents   validation.JSONField[[]tasksrepo.Document] `db:"documents"`
	CreatedAt   time.Time                                  `db:"created_at"`
	UpdatedAt   time.Time                                  `db:"updated_at"`
}

func toDBTask(t tasksrepo.Task) dbTask {
	docs := t.Documents
	if docs == nil {
		docs = []tasksrepo.Document{}
	}
	return dbTask{
		TaskID:      t.TaskID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		Documents:   validation.JSONField[[]tasksrepo.Document]{Data: docs},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toCoreTask(d dbTask) tasksrepo.Task {
	docs := d.Documents.Data
	if docs == nil {
		docs = []tasksrepo.Document{}
	}
	return tasksrepo.Task{
		TaskID:      d.TaskID,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		AssignedTo:  d.AssignedTo,
		Documents:   docs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toCoreTasks(rows []dbTask) []tasksrepo.Task {
	out := make([]tasksrepo.Task, len(rows))
	for i, r := range rows {
		out[i] = toCoreTask(r)
	}
	return out
}

func namedArgs(d dbTask) pgx.NamedArgs {
	return pgx.NamedArgs{
		"task_id":     d.TaskID,
		"title":       d.Title,
		"description": d.Description,
		"status":      d.Status,
		"priority":    d.Priority,
		"due_date":    d.DueDate,
		"assigned_to": d.AssignedTo,
		"documents":   d.Documents,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	}
}

func (s *Store) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	const q = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (@task_id, @title, @description, @status, @priority, @due_date, @assigned_to, @documents, @created_at, @updated_at)
	RETURNING ` + taskColumns

	return s.queryOne(ctx, q, namedArgs(toDBTask(task)))
}

func (s *Store) Get(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = @task_id`
	return s.queryOne(ctx, q, pgx.NamedArgs{"task_id": taskID})
}

func (s *Store) List(ctx context.Context, filter tasksrepo.QueryFilter, orderBy fop.By, page fop.PageOffset) ([]tasksrepo.Task, error) {
	data := pgx.NamedArgs{}
	buf := bytes.NewBufferString(`SELECT ` + taskColumns + ` FROM tasks`)

	applyFilter(filter, data, buf)
	if err := postgresdb.AddOrderByClause(buf, orderBy.Field, tasksrepo.OrderByPK, orderBy.Direction); err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	postgresdb.AddLimitOffsetClause(page.Limit, page.Offset(), data, buf)

	rows, err := s.pool.Query(ctx, buf.String(), data)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbTask])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return toCoreTasks(records), nil
}

func (s *Store) Count(ctx context.Context, filter tasksrepo.QueryFilter) (int, error) {
	data := pgx.NamedArgs{}
	buf := bytes.NewBufferString(`SELECT count(*) FROM tasks`)
	applyFilter(filter, data, buf)

	var n int
	if err := s.pool.QueryRow(ctx, buf.String(), data).Scan(&n); err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	const q = `
	UPDATE tasks SET
		title = @title,
		description = @description,
		status = @status,
		priority = @priority,
		due_date = @due_date,
		assigned_to = @assigned_to,
		documents = @documents,
		updated_at = @updated_at
	WHERE task_id = @task_id
	RETURNING ` + taskColumns

	return s.queryOne(ctx, q, namedArgs(toDBTask(task)))
}

func (s *Store) Delete(ctx context.Context, taskID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE task_id = @task_id`, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return tasksrepo.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) ([]tasksrepo.Task, error) {
	const q = `DELETE FROM tasks WHERE assigned_to = @assigned_to RETURNING ` + taskColumns

	rows, err := s.pool.Query(ctx, q, pgx.NamedArgs{"assigned_to": ownerID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbTask])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return toCoreTasks(records), nil
}

func (s *Store) queryOne(ctx context.Context, q string, args pgx.NamedArgs) (tasksrepo.Task, error) {
	rows, err := s.pool.Query(ctx, q, args)
	if err != nil {
		return tasksrepo.Task{}, mapError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dbTask])
	if err != nil {
		return tasksrepo.Task{}, mapError(err)
	}
	return toCoreTask(record), nil
}

func mapError(err error) error {
	err = postgresdb.HandlePgError(err)
	switch {
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return tasksrepo.ErrNotFound
	case errors.Is(err, postgresdb.ErrDBForeignKey):
		return fmt.Errorf("%w: %w", tasksrepo.ErrInvalidInput, ErrUnknownOwner)
	}
	return err
}

// applyFilter appends the WHERE clause for f and registers its arguments.
func applyFilter(f tasksrepo.QueryFilter, data pgx.NamedArgs, buf *bytes.Buffer) {
	var wc []string

	if f.AssignedTo != nil {
		wc = append(wc, "assigned_to = @assigned_to")
		data["assigned_to"] = *f.AssignedTo
	}
	if f.Status != nil {
		wc = append(wc, "status = @status")
		data["status"] = *f.Status
	}
	if f.Priority != nil {
		wc = append(wc, "priority = @priority")
		data["priority"] = *f.Priority
	}
	if f.DueDateFrom != nil {
		wc = append(wc, "due_date >= @due_date_from")
		data["due_date_from"] = *f.DueDateFrom
	}
	if f.DueDateTo != nil {
		wc = append(wc, "due_date <= @due_date_to")
		data["due_date_to"] = *f.DueDateTo
	}

	postgresdb.AddWhereClause(buf, wc)
}
