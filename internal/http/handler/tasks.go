package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/http/middleware"
	"taskdesk/internal/service"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Priority    *string   `json:"priority"`
	Status      *string   `json:"status"`
	DueDate     optString `json:"dueDate" swaggertype:"string"`
}

func (r updateTaskRequest) toUpdate() service.TaskUpdate {
	u := service.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
	}
	if r.DueDate.Set {
		due := ""
		if r.DueDate.Value != nil {
			due = *r.DueDate.Value
		}
		u.DueDate = &due
	}
	return u
}

// ListTasks returns the user's tasks.
//
//	@Summary	List tasks
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status	query		string	false	"active, completed or archived"
//	@Param		q		query		string	false	"Search in title and description"
//	@Param		sort	query		string	false	"priority or deadline; newest first by default"
//	@Success	200		{array}		model.Task
//	@Failure	400		{object}	errorPayload
//	@Router		/tasks [get]
func ListTasks(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), middleware.UserID(c), service.TaskListQuery{
			Status: c.Query("status"),
			Query:  c.Query("q"),
			Sort:   c.Query("sort"),
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	}
}

// GetTask returns one task.
//
//	@Summary	Get a task
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	model.Task
//	@Failure	404	{object}	errorPayload
//	@Router		/tasks/{id} [get]
func GetTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		t, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(t)
	}
}

// CreateTask adds a task.
//
//	@Summary	Create a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		createTaskRequest	true	"Task"
//	@Success	201		{object}	model.Task
//	@Failure	400		{object}	errorPayload
//	@Router		/tasks [post]
func CreateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Create(c.UserContext(), middleware.UserID(c), service.TaskCreate{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			DueDate:     req.DueDate,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// UpdateTask changes the fields present in the body. A null or empty dueDate clears it.
//
//	@Summary	Update a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Task ID"
//	@Param		body	body		updateTaskRequest	true	"Fields to change"
//	@Success	200		{object}	model.Task
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/tasks/{id} [put]
func UpdateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req updateTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return invalidBody(c)
		}
		t, err := svc.Update(c.UserContext(), middleware.UserID(c), id, req.toUpdate())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(t)
	}
}

// ArchiveTask moves a task to the archive.
//
//	@Summary	Archive a task
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	okResponse
//	@Failure	404	{object}	errorPayload
//	@Router		/tasks/{id} [delete]
func ArchiveTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return invalidID(c)
		}
		if _, err := svc.Archive(c.UserContext(), middleware.UserID(c), id); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(okResponse{OK: true})
	}
}

// TaskStats returns counters over the user's tasks.
//
//	@Summary	Task statistics
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.TaskStats
//	@Router		/tasks/stats [get]
func TaskStats(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(stats)
	}
}

// TaskCalendar groups dated tasks by day.
//
//	@Summary	Tasks by due day
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		from	query		string	false	"YYYY-MM-DD, inclusive"
//	@Param		to		query		string	false	"YYYY-MM-DD, inclusive"
//	@Success	200		{object}	map[string][]model.Task
//	@Failure	400		{object}	errorPayload
//	@Router		/tasks/calendar [get]
func TaskCalendar(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days, err := svc.Calendar(c.UserContext(), middleware.UserID(c), c.Query("from"), c.Query("to"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(days)
	}
}
