package service

import "errors"

// Generic.
var (
	ErrNotFound        = errors.New("not found")
	ErrNothingToUpdate = errors.New("nothing to update")
)

// Auth.
var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnauthorized        = errors.New("unauthorized")
)

// Tasks and documents.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidPriority  = errors.New("priority must be one of high, medium, low")
	ErrInvalidStatus    = errors.New("status must be one of active, completed, archived")
	ErrInvalidDueDate   = errors.New("dueDate must be RFC 3339 or YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("from and to must be YYYY-MM-DD")
)

// Recipients and letters.
var (
	ErrFullNameRequired  = errors.New("fullName is required")
	ErrRecipientRequired = errors.New("recipientId is required")
)

// Attachments.
var (
	ErrOwnerRequired    = errors.New("taskId or docId is required")
	ErrFileNameRequired = errors.New("fileName is required")
	ErrFileDataRequired = errors.New("fileData is required")
	ErrInvalidFileData  = errors.New("fileData must be valid base64")
	ErrFileTooLarge     = errors.New("file is too large")
	ErrInvalidOwnerKind = errors.New("unknown attachment owner")
)
