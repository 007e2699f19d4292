package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sqlc "github.com/Joseda-hg/devtasks/internal/db/sqlc"
	"github.com/Joseda-hg/devtasks/internal/model"
)

type Store struct {
	DB      *sql.DB
	Queries *sqlc.Queries

	now func() time.Time
}

type CreateInput struct {
	Title       string
	Description *string
}

// UpdateInput carries a partial update. Nil fields keep their stored value.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
}

type Option func(*Store)

// WithClock replaces the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{DB: db, Queries: sqlc.New(db), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.Queries.ListTasks(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list tasks", Err: err}
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTask(row))
	}
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, taskID int64) (model.Task, error) {
	row, err := s.Queries.GetTask(ctx, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, &StoreError{Op: "get task", Err: err}
	}
	return mapTask(row), nil
}

// CreateTask inserts a pending task and returns its id.
func (s *Store) CreateTask(ctx context.Context, input CreateInput) (int64, error) {
	if err := validateTitle(input.Title); err != nil {
		return 0, err
	}

	now := s.timestamp()
	id, err := s.Queries.CreateTask(ctx, sqlc.CreateTaskParams{
		Title:       input.Title,
		Description: nullString(input.Description),
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return 0, &StoreError{Op: "create task", Err: err}
	}
	return id, nil
}

// UpdateTask applies a coalescing update. A task that exists is reported as
// applied even when no field is set; updated_at is refreshed either way.
func (s *Store) UpdateTask(ctx context.Context, taskID int64, input UpdateInput) (Outcome, error) {
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return OutcomeFailed, err
		}
	}

	rows, err := s.Queries.UpdateTask(ctx, sqlc.UpdateTaskParams{
		Title:       nullString(input.Title),
		Description: nullString(input.Description),
		Status:      nullString(input.Status),
		UpdatedAt:   s.timestamp(),
		ID:          taskID,
	})
	if err != nil {
		return OutcomeFailed, &StoreError{Op: "update task", Err: err}
	}
	return outcomeFromRows(rows), nil
}

func (s *Store) DeleteTask(ctx context.Context, taskID int64) (Outcome, error) {
	rows, err := s.Queries.DeleteTask(ctx, taskID)
	if err != nil {
		return OutcomeFailed, &StoreError{Op: "delete task", Err: err}
	}
	return outcomeFromRows(rows), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	return nil
}

func mapTask(row sqlc.Task) model.Task {
	task := model.Task{
		ID:        row.ID,
		Title:     row.Title,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Description.Valid {
		description := row.Description.String
		task.Description = &description
	}
	return task
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
