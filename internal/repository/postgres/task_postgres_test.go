package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

var taskCols = []string{"id", "user_id", "title", "description", "priority", "status", "due_date", "created_at", "completed_at"}

func TestTaskPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	now := time.Now().UTC()
	due := now.Add(48 * time.Hour)
	task := &model.Task{
		ID: "t1", UserID: "u1", Title: "Write report", Description: "Q3",
		Priority: model.PriorityHigh, Status: model.StatusActive, DueDate: &due, CreatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs("t1", "u1", "Write report", "Q3", "high", "active", due, now).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t1", "u1", "Write report", "Q3", "high", "active", due, now, nil))

	got, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.Nil(t, got.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id = (.+) AND user_id = ").
			WithArgs("t1", "u1").
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("t1", "u1", "A", "", "low", "completed", nil, time.Now(), time.Now()))

		got, err := repo.FindByID(ctx, "u1", "t1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, got.Status)
		assert.Nil(t, got.DueDate)
		assert.NotNil(t, got.CompletedAt)
	})

	t.Run("other user", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id = (.+) AND user_id = ").
			WithArgs("t1", "u2").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(ctx, "u2", "t1")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	ctx := context.Background()

	t.Run("no filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE user_id = $1 ORDER BY created_at DESC")).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("t2", "u1", "B", "", "medium", "active", nil, time.Now(), nil).
				AddRow("t1", "u1", "A", "", "high", "active", nil, time.Now(), nil))

		items, err := repo.List(ctx, "u1", repository.TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "t2", items[0].ID)
	})

	t.Run("status and query", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND status = $2 AND (title ILIKE $3 OR description ILIKE $3)")).
			WithArgs("u1", "active", "%report%").
			WillReturnRows(sqlmock.NewRows(taskCols))

		items, err := repo.List(ctx, "u1", repository.TaskFilter{Status: model.StatusActive, Query: "report"})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("status completed with timestamp", func(t *testing.T) {
		status := model.StatusCompleted
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET status = $1, completed_at = $2 WHERE id = $3 AND user_id = $4")).
			WithArgs("completed", now, "t1", "u1").
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("t1", "u1", "A", "", "high", "completed", nil, now, now))

		got, err := repo.Update(ctx, "u1", "t1", repository.TaskPatch{Status: &status, CompletedAt: &now})
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, got.Status)
	})

	t.Run("clear due date and completion", func(t *testing.T) {
		title := "Renamed"
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET title = $1, due_date = NULL, completed_at = NULL WHERE id = $2 AND user_id = $3")).
			WithArgs("Renamed", "t1", "u1").
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("t1", "u1", "Renamed", "", "high", "active", nil, now, nil))

		got, err := repo.Update(ctx, "u1", "t1", repository.TaskPatch{Title: &title, ClearDueDate: true, ClearCompletedAt: true})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
	})

	t.Run("not found", func(t *testing.T) {
		title := "x"
		mock.ExpectQuery("UPDATE tasks SET").WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, "u1", "missing", repository.TaskPatch{Title: &title})
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("empty patch reads the row", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id = ").
			WithArgs("t1", "u1").
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("t1", "u1", "A", "", "high", "active", nil, now, nil))

		got, err := repo.Update(ctx, "u1", "t1", repository.TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, "t1", got.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
