package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles a user may hold.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleGuest  Role = "guest"
)

// User represents an author of articles.
type User struct {
	ID               string
	FirstName        string `validate:"required,min=4,max=50"`
	LastName         string `validate:"required,min=3,max=60"`
	FullName         string
	Email            string `validate:"required,basicemail"`
	Role             Role   `validate:"required,oneof=admin writer guest"`
	Age              int    `validate:"omitempty,min=1,max=99"`
	NumberOfArticles int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Owner is the reduced view of a user joined into article reads.
type Owner struct {
	ID       string
	FullName string
	Email    string
	Age      int
}

// Normalize applies the write-path rules for users. It must run before
// every insert or update.
func (u *User) Normalize() {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.ToLower(u.Email)
	if u.Age < 0 {
		u.Age = 1
	}
	u.FullName = FullName(u.FirstName, u.LastName)
}

// FullName derives the display name stored alongside first and last name.
func FullName(firstName, lastName string) string {
	return fmt.Sprintf("%s %s", firstName, lastName)
}
