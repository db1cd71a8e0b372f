package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskdesk/internal/model"
	"taskdesk/internal/service"
	serviceMocks "taskdesk/internal/service/mocks"
)

func TestListTasks(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Get("/tasks", ListTasks(mockSvc))

	t.Run("success with filters", func(t *testing.T) {
		q := service.TaskListQuery{Status: "active", Query: "report", Sort: "deadline"}
		items := []model.Task{{ID: uuid.NewString(), Title: "Quarterly report"}}
		mockSvc.On("List", mock.Anything, testUserID, q).Return(items, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tasks?status=active&q=report&sort=deadline", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []model.Task
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID, service.TaskListQuery{Status: "done"}).
			Return(nil, service.ErrInvalidStatus).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tasks?status=done", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_STATUS", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID, service.TaskListQuery{}).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateTask(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Post("/tasks", CreateTask(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := service.TaskCreate{Title: "Call", Priority: "high", DueDate: "2024-05-20"}
		due := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
		created := &model.Task{ID: uuid.NewString(), Title: "Call", Priority: model.PriorityHigh, Status: model.StatusActive, DueDate: &due}
		mockSvc.On("Create", mock.Anything, testUserID, in).Return(created, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/tasks",
			map[string]string{"title": "Call", "priority": "high", "dueDate": "2024-05-20"}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, created.ID, body["id"])
		assert.Equal(t, "active", body["status"])
		assert.Equal(t, "2024-05-20T00:00:00Z", body["dueDate"])
		assert.Nil(t, body["completedAt"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("title required", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testUserID, service.TaskCreate{Title: "  "}).Return(nil, service.ErrTitleRequired).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/tasks", map[string]string{"title": "  "}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "TITLE_REQUIRED", res.Error.Code)
		assert.Equal(t, "title is required", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateTask(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Put("/tasks/:id", UpdateTask(mockSvc))

	id := uuid.NewString()

	t.Run("status only", func(t *testing.T) {
		want := service.TaskUpdate{Status: strPtr("completed")}
		mockSvc.On("Update", mock.Anything, testUserID, id, want).
			Return(&model.Task{ID: id, Status: model.StatusCompleted}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, `{"status":"completed"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("null dueDate clears it", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.MatchedBy(func(u service.TaskUpdate) bool {
			return u.DueDate != nil && *u.DueDate == "" && u.Title == nil
		})).Return(&model.Task{ID: id}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, `{"dueDate":null}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("absent dueDate is untouched", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.MatchedBy(func(u service.TaskUpdate) bool {
			return u.DueDate == nil && u.Title != nil && *u.Title == "Renamed"
		})).Return(&model.Task{ID: id, Title: "Renamed"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, `{"title":"Renamed"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("nothing to update", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUserID, id, service.TaskUpdate{}).Return(nil, service.ErrNothingToUpdate).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, `{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "NOTHING_TO_UPDATE", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("wrong dueDate type", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, `{"dueDate":42}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/tasks/"+id, `{"title":"x"}`))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestArchiveTask(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Delete("/tasks/:id", ArchiveTask(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Archive", mock.Anything, testUserID, id).Return(&model.Task{ID: id, Status: model.StatusArchived}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/tasks/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body okResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.True(t, body.OK)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Archive", mock.Anything, testUserID, id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/tasks/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestTaskCalendar(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Get("/tasks/calendar", TaskCalendar(mockSvc))

	t.Run("grouped by day", func(t *testing.T) {
		days := map[string][]model.Task{"2024-05-20": {{ID: "a"}, {ID: "b"}}}
		mockSvc.On("Calendar", mock.Anything, testUserID, "2024-05-01", "2024-05-31").Return(days, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tasks/calendar?from=2024-05-01&to=2024-05-31", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string][]model.Task
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Len(t, body["2024-05-20"], 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad range", func(t *testing.T) {
		mockSvc.On("Calendar", mock.Anything, testUserID, "may", "").Return(nil, service.ErrInvalidDateRange).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/tasks/calendar?from=may", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE_RANGE", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}
