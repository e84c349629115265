package domain

import (
	"strings"
	"time"
)

// Category is the closed set of article categories.
type Category string

const (
	CategorySport   Category = "sport"
	CategoryGames   Category = "games"
	CategoryHistory Category = "history"
)

// Article is a piece of content owned by exactly one user.
type Article struct {
	ID          string
	Title       string   `validate:"required,min=5,max=400"`
	Subtitle    string   `validate:"omitempty,min=5"`
	Description string   `validate:"required,min=5,max=5000"`
	OwnerID     string   `validate:"required"`
	Category    Category `validate:"required,oneof=sport games history"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is populated only by reads that join the owning user.
	Owner *Owner `validate:"-"`
}

// Normalize applies the write-path rules for articles.
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
}
