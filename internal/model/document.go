package model

import "time"

// Category groups documents.
type Category string

const (
	CategoryLetters  Category = "letters"
	CategoryInternal Category = "internal"
	CategoryOther    Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLetters, CategoryInternal, CategoryOther:
		return true
	}
	return false
}

// Document is a text document such as a letter or an internal memo.
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
