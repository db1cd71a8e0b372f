package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"taskdesk/internal/http/middleware"
	"taskdesk/internal/model"
	"taskdesk/internal/service"
)

// Services bundles the use cases the HTTP layer depends on.
type Services struct {
	Auth        service.AuthService
	Tasks       service.TaskService
	Documents   service.DocumentService
	Letters     service.LetterService
	Recipients  service.RecipientService
	Attachments service.AttachmentService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Everything except health probes, register and login requires a bearer token.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	requireAuth := middleware.Auth(svc.Auth)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", Register(svc.Auth))
	authGroup.Post("/login", Login(svc.Auth))
	authGroup.Get("/me", requireAuth, Me(svc.Auth))

	tasks := app.Group("/tasks", requireAuth)
	tasks.Get("/", ListTasks(svc.Tasks))
	tasks.Post("/", CreateTask(svc.Tasks))
	tasks.Get("/stats", TaskStats(svc.Tasks))
	tasks.Get("/calendar", TaskCalendar(svc.Tasks))
	tasks.Get("/:id", GetTask(svc.Tasks))
	tasks.Put("/:id", UpdateTask(svc.Tasks))
	tasks.Delete("/:id", ArchiveTask(svc.Tasks))
	tasks.Get("/:id/attachments", ListAttachments(svc.Attachments, model.OwnerTask))
	tasks.Post("/:id/attachments", UploadAttachment(svc.Attachments, model.OwnerTask))

	docs := app.Group("/documents", requireAuth)
	docs.Get("/", ListDocuments(svc.Documents))
	docs.Post("/", CreateDocument(svc.Documents))
	docs.Get("/:id", GetDocument(svc.Documents))
	docs.Put("/:id", UpdateDocument(svc.Documents))
	docs.Delete("/:id", DeleteDocument(svc.Documents))
	docs.Get("/:id/letter", RenderLetter(svc.Letters))
	docs.Get("/:id/letter.eml", ExportLetter(svc.Letters))
	docs.Get("/:id/attachments", ListAttachments(svc.Attachments, model.OwnerDocument))
	docs.Post("/:id/attachments", UploadAttachment(svc.Attachments, model.OwnerDocument))

	recipients := app.Group("/recipients", requireAuth)
	recipients.Get("/", ListRecipients(svc.Recipients))
	recipients.Post("/", CreateRecipient(svc.Recipients))
	recipients.Put("/:id", UpdateRecipient(svc.Recipients))
	recipients.Delete("/:id", DeleteRecipient(svc.Recipients))

	files := app.Group("/files", requireAuth)
	files.Get("/", ListFiles(svc.Attachments))
	files.Post("/", UploadFile(svc.Attachments))

	attachments := app.Group("/attachments", requireAuth)
	attachments.Delete("/:id", DeleteAttachment(svc.Attachments))
	attachments.Get("/:id/download", DownloadAttachment(svc.Attachments))
	attachments.Get("/:id/url", AttachmentURL(svc.Attachments))
}
