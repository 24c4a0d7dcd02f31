// Package userspgxstore persists accounts in Postgres through pgx.
package userspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/infrastructure/postgresdb"
	"github.com/jrazmi/taskforge/sdk/logger"
)

const userColumns = `user_id, email, password_hash, role, created_at, updated_at`

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

type dbUser struct {
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func toCoreUser(d dbUser) usersrepo.User {
	return usersrepo.User(d)
}

func namedArgs(u usersrepo.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"user_id":       u.UserID,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	}
}

func (s *Store) Create(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	const q = `
	INSERT INTO users (` + userColumns + `)
	VALUES (@user_id, @email, @password_hash, @role, @created_at, @updated_at)
	RETURNING ` + userColumns

	return s.queryOne(ctx, q, namedArgs(user))
}

func (s *Store) Get(ctx context.Context, userID string) (usersrepo.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE user_id = @user_id`
	return s.queryOne(ctx, q, pgx.NamedArgs{"user_id": userID})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = @email`
	return s.queryOne(ctx, q, pgx.NamedArgs{"email": email})
}

func (s *Store) List(ctx context.Context, filter usersrepo.UserFilter, orderBy fop.By, page fop.PageOffset) ([]usersrepo.User, error) {
	data := pgx.NamedArgs{}
	buf := bytes.NewBufferString(`SELECT ` + userColumns + ` FROM users`)

	applyFilter(filter, data, buf)
	if err := postgresdb.AddOrderByClause(buf, orderBy.Field, usersrepo.OrderByPK, orderBy.Direction); err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	postgresdb.AddLimitOffsetClause(page.Limit, page.Offset(), data, buf)

	rows, err := s.pool.Query(ctx, buf.String(), data)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbUser])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	users := make([]usersrepo.User, len(records))
	for i, r := range records {
		users[i] = toCoreUser(r)
	}
	return users, nil
}

func (s *Store) Count(ctx context.Context, filter usersrepo.UserFilter) (int, error) {
	data := pgx.NamedArgs{}
	buf := bytes.NewBufferString(`SELECT count(*) FROM users`)
	applyFilter(filter, data, buf)

	var n int
	if err := s.pool.QueryRow(ctx, buf.String(), data).Scan(&n); err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	const q = `
	UPDATE users SET
		email = @email,
		password_hash = @password_hash,
		role = @role,
		updated_at = @updated_at
	WHERE user_id = @user_id
	RETURNING ` + userColumns

	return s.queryOne(ctx, q, namedArgs(user))
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE user_id = @user_id`, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return usersrepo.ErrNotFound
	}
	return nil
}

func (s *Store) queryOne(ctx context.Context, q string, args pgx.NamedArgs) (usersrepo.User, error) {
	rows, err := s.pool.Query(ctx, q, args)
	if err != nil {
		return usersrepo.User{}, mapError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dbUser])
	if err != nil {
		return usersrepo.User{}, mapError(err)
	}
	return toCoreUser(record), nil
}

func mapError(err error) error {
	err = postgresdb.HandlePgError(err)
	switch {
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return usersrepo.ErrNotFound
	case errors.Is(err, postgresdb.ErrDBDuplicatedEntry):
		return usersrepo.ErrDuplicateEmail
	}
	return err
}

// applyFilter appends the WHERE clause for f and registers its arguments.
func applyFilter(f usersrepo.UserFilter, data pgx.NamedArgs, buf *bytes.Buffer) {
	var wc []string

	if f.Role != nil {
		wc = append(wc, "role = @role")
		data["role"] = *f.Role
	}
	if f.Email != nil {
		wc = append(wc, `email ILIKE @email ESCAPE '\'`)
		data["email"] = postgresdb.ContainsPattern(*f.Email)
	}

	postgresdb.AddWhereClause(buf, wc)
}
