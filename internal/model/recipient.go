package model

import "time"

// Recipient is an addressee used when rendering letters.
type Recipient struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	FullName     string    `json:"fullName"`
	Organization string    `json:"organization"`
	Position     string    `json:"position"`
	Address      string    `json:"address"`
	Emails       []string  `json:"emails"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}
