package repository

import (
	"context"
	"errors"

	"content-api/internal/domain"
)

// ErrNotFound is returned when no row matches the requested identifier.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	AdjustArticleCount(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
}
