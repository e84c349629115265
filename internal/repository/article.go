package repository

import (
	"context"

	"content-api/internal/domain"
)

// ArticleFilter narrows article listings. An empty Title matches everything.
type ArticleFilter struct {
	Title string
}

// ArticleRepository exposes persistence operations for Article entities.
type ArticleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, article *domain.Article) error
	Get(ctx context.Context, id string) (*domain.Article, error)
	GetWithOwner(ctx context.Context, id string) (*domain.Article, error)
	Count(ctx context.Context, filter ArticleFilter) (int, error)
	List(ctx context.Context, filter ArticleFilter, offset, limit int) ([]domain.Article, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Article, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// Repositories groups the entity stores that share one connection or transaction.
type Repositories struct {
	Users    UserRepository
	Articles ArticleRepository
}

// Store hands out repositories and runs multi-write sequences atomically.
type Store interface {
	Repositories() Repositories
	// WithinTx runs fn inside a single transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
