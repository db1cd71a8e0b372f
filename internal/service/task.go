package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// Task list orderings accepted by TaskService.List.
const (
	SortNewest   = ""
	SortPriority = "priority"
	SortDeadline = "deadline"
)

const dayLayout = "2006-01-02"

// TaskListQuery filters and orders a task listing.
type TaskListQuery struct {
	Status string
	Query  string
	Sort   string
}

// TaskCreate carries the fields of a new task.
type TaskCreate struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// TaskUpdate carries the fields to change. Nil fields are left as they are;
// an empty DueDate clears the due date.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	DueDate     *string
}

// TaskService defines the use cases for a user's tasks.
type TaskService interface {
	List(ctx context.Context, userID string, q TaskListQuery) ([]model.Task, error)
	Get(ctx context.Context, userID, id string) (*model.Task, error)
	Create(ctx context.Context, userID string, in TaskCreate) (*model.Task, error)
	Update(ctx context.Context, userID, id string, in TaskUpdate) (*model.Task, error)
	// Archive moves a task to the archived status; the row is kept.
	Archive(ctx context.Context, userID, id string) (*model.Task, error)
	Stats(ctx context.Context, userID string) (*model.TaskStats, error)
	// Calendar groups dated, non-archived tasks by YYYY-MM-DD. from and to are optional and inclusive.
	Calendar(ctx context.Context, userID, from, to string) (map[string][]model.Task, error)
}

type taskService struct {
	repo repository.TaskRepository
	loc  *time.Location
	now  func() time.Time
}

// NewTaskService constructs a new TaskService. Date-only values are interpreted in loc.
func NewTaskService(repo repository.TaskRepository, loc *time.Location) TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &taskService{repo: repo, loc: loc, now: time.Now}
}

func (s *taskService) List(ctx context.Context, userID string, q TaskListQuery) ([]model.Task, error) {
	status := model.TaskStatus(strings.TrimSpace(q.Status))
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	items, err := s.repo.List(ctx, userID, repository.TaskFilter{
		Status: status,
		Query:  strings.TrimSpace(q.Query),
	})
	if err != nil {
		return nil, err
	}
	sortTasks(items, q.Sort)
	return items, nil
}

// sortTasks reorders items, which arrive newest first, keeping that order within ties.
func sortTasks(items []model.Task, mode string) {
	switch mode {
	case SortPriority:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Priority.Rank() < items[j].Priority.Rank()
		})
	case SortDeadline:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].DueDate, items[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}
}

func (s *taskService) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	t, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *taskService) Create(ctx context.Context, userID string, in TaskCreate) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	priority := model.PriorityMedium
	if in.Priority != "" {
		priority = model.Priority(in.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
	}
	due, err := s.parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	t := &model.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Status:      model.StatusActive,
		DueDate:     due,
		CreatedAt:   s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return stored, nil
}

func (s *taskService) Update(ctx context.Context, userID, id string, in TaskUpdate) (*model.Task, error) {
	var p repository.TaskPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		p.Title = &title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		p.Description = &desc
	}
	if in.Priority != nil {
		pr := model.Priority(*in.Priority)
		if !pr.Valid() {
			return nil, ErrInvalidPriority
		}
		p.Priority = &pr
	}
	if in.Status != nil {
		st := model.TaskStatus(*in.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		p.Status = &st
		switch st {
		case model.StatusCompleted:
			now := s.now().UTC()
			p.CompletedAt = &now
		case model.StatusActive:
			p.ClearCompletedAt = true
		}
	}
	if in.DueDate != nil {
		due, err := s.parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			p.ClearDueDate = true
		} else {
			p.DueDate = due
		}
	}
	if p.Empty() {
		return nil, ErrNothingToUpdate
	}

	t, err := s.repo.Update(ctx, userID, id, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *taskService) Archive(ctx context.Context, userID, id string) (*model.Task, error) {
	status := string(model.StatusArchived)
	return s.Update(ctx, userID, id, TaskUpdate{Status: &status})
}

func (s *taskService) Stats(ctx context.Context, userID string) (*model.TaskStats, error) {
	items, err := s.repo.List(ctx, userID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	var st model.TaskStats
	for _, t := range items {
		st.Total++
		switch t.Status {
		case model.StatusActive:
			st.Active++
			if t.DueDate != nil && t.DueDate.Before(now) {
				st.Overdue++
			}
			if t.Priority == model.PriorityHigh {
				st.HighPriority++
			}
		case model.StatusCompleted:
			st.Completed++
			if t.CompletedAt != nil && t.CompletedAt.After(weekAgo) {
				st.CompletedThisWeek++
			}
		case model.StatusArchived:
			st.Archived++
		}
	}
	return &st, nil
}

func (s *taskService) Calendar(ctx context.Context, userID, from, to string) (map[string][]model.Task, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.ParseInLocation(dayLayout, d, s.loc); err != nil {
			return nil, ErrInvalidDateRange
		}
	}

	items, err := s.repo.List(ctx, userID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	sortTasks(items, SortDeadline)

	days := make(map[string][]model.Task)
	for _, t := range items {
		if t.DueDate == nil || t.Status == model.StatusArchived {
			continue
		}
		day := t.DueDate.In(s.loc).Format(dayLayout)
		if (from != "" && day < from) || (to != "" && day > to) {
			continue
		}
		days[day] = append(days[day], t)
	}
	return days, nil
}

// parseDueDate accepts RFC 3339 or YYYY-MM-DD (midnight in the service location).
// An empty string means no due date.
func (s *taskService) parseDueDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation(dayLayout, v, s.loc); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, ErrInvalidDueDate
}
