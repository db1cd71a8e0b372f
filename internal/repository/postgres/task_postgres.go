package postgres

import (
	"context"
	"database/sql"
	"strings"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
type TaskPostgres struct {
	db *sql.DB
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

const taskColumns = `id, user_id, title, description, priority, status, due_date, created_at, completed_at`

func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	var (
		t         model.Task
		due, done sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Status,
		&due,
		&t.CreatedAt,
		&done,
	); err != nil {
		return nil, err
	}
	t.DueDate = timePtr(due)
	t.CompletedAt = timePtr(done)
	return &t, nil
}

func (r *TaskPostgres) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		INSERT INTO tasks (id, user_id, title, description, priority, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, q,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.Priority,
		t.Status,
		t.DueDate,
		t.CreatedAt,
	))
}

func (r *TaskPostgres) FindByID(ctx context.Context, userID, id string) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(r.db.QueryRowContext(ctx, q, id, userID))
}

func (r *TaskPostgres) List(ctx context.Context, userID string, f repository.TaskFilter) ([]model.Task, error) {
	var s stmt
	conds := []string{"user_id = " + s.bind(userID)}
	if f.Status != "" {
		conds = append(conds, "status = "+s.bind(f.Status))
	}
	if f.Query != "" {
		ph := s.bind(containsPattern(f.Query))
		conds = append(conds, "(title ILIKE "+ph+" OR description ILIKE "+ph+")")
	}

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, s.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies p and returns the stored task. An empty patch reads the row unchanged.
func (r *TaskPostgres) Update(ctx context.Context, userID, id string, p repository.TaskPatch) (*model.Task, error) {
	var s stmt
	if p.Title != nil {
		s.set("title", *p.Title)
	}
	if p.Description != nil {
		s.set("description", *p.Description)
	}
	if p.Priority != nil {
		s.set("priority", *p.Priority)
	}
	if p.Status != nil {
		s.set("status", *p.Status)
	}
	switch {
	case p.ClearDueDate:
		s.raw("due_date = NULL")
	case p.DueDate != nil:
		s.set("due_date", *p.DueDate)
	}
	switch {
	case p.ClearCompletedAt:
		s.raw("completed_at = NULL")
	case p.CompletedAt != nil:
		s.set("completed_at", *p.CompletedAt)
	}
	if s.empty() {
		return r.FindByID(ctx, userID, id)
	}

	set := s.setList()
	q := `UPDATE tasks SET ` + set + ` WHERE id = ` + s.bind(id) + ` AND user_id = ` + s.bind(userID) +
		` RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, q, s.args...))
}
