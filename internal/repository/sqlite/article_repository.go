package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"content-api/internal/domain"
	"content-api/internal/repository"
)

const createArticlesTable = `
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	subtitle TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	category TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_owner_id ON articles(owner_id);
`

const selectArticleColumns = `
SELECT id, title, subtitle, description, owner_id, category, created_at, updated_at
FROM articles`

const selectArticleWithOwnerColumns = `
SELECT a.id, a.title, a.subtitle, a.description, a.owner_id, a.category, a.created_at, a.updated_at,
	u.id, u.full_name, u.email, u.age
FROM articles a
LEFT JOIN users u ON u.id = a.owner_id`

type ArticleRepository struct {
	db querier
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createArticlesTable); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO articles (id, title, subtitle, description, owner_id, category, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID,
		article.Title,
		article.Subtitle,
		article.Description,
		article.OwnerID,
		string(article.Category),
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Get(ctx context.Context, id string) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx, selectArticleColumns+`
WHERE id=?`,
		id,
	)
	return scanArticle(row)
}

func (r *ArticleRepository) GetWithOwner(ctx context.Context, id string) (*domain.Article, error) {
	row := r.db.QueryRowContext(ctx, selectArticleWithOwnerColumns+`
WHERE a.id=?`,
		id,
	)
	return scanArticleWithOwner(row)
}

func (r *ArticleRepository) Count(ctx context.Context, filter repository.ArticleFilter) (int, error) {
	where, args := filterClause(filter, "")
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

// List returns one window of matching articles in insertion order with
// their owners joined. A negative limit means no upper bound and a negative
// offset behaves like zero.
func (r *ArticleRepository) List(ctx context.Context, filter repository.ArticleFilter, offset, limit int) ([]domain.Article, error) {
	where, args := filterClause(filter, "a.")
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, selectArticleWithOwnerColumns+where+`
ORDER BY a.rowid ASC
LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		article, err := scanArticleWithOwner(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}

	return articles, rows.Err()
}

// ListByOwner resolves a user's articles with an explicit owner query.
func (r *ArticleRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, selectArticleWithOwnerColumns+`
WHERE a.owner_id=?
ORDER BY a.rowid ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query articles by owner: %w", err)
	}
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		article, err := scanArticleWithOwner(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}

	return articles, rows.Err()
}

// Update overwrites the editable content fields. Owner and created_at never change.
func (r *ArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE articles
SET title=?, subtitle=?, description=?, category=?, updated_at=?
WHERE id=?`,
		article.Title,
		article.Subtitle,
		article.Description,
		string(article.Category),
		article.UpdatedAt.UTC(),
		article.ID,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return requireAffected(res, "article update")
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return requireAffected(res, "article delete")
}

func (r *ArticleRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE owner_id=?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete articles by owner: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("articles delete rows affected: %w", err)
	}
	return aff, nil
}

func filterClause(filter repository.ArticleFilter, prefix string) (string, []any) {
	if filter.Title == "" {
		return "", nil
	}
	pattern := "%" + escapeLike(strings.ToLower(filter.Title)) + "%"
	return fmt.Sprintf("\nWHERE %s(%stitle) LIKE ? ESCAPE '\\'", unicodeLowerFunc, prefix), []any{pattern}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanArticle(scanner interface {
	Scan(dest ...any) error
}) (*domain.Article, error) {
	var (
		article  domain.Article
		category string
	)
	if err := scanner.Scan(
		&article.ID,
		&article.Title,
		&article.Subtitle,
		&article.Description,
		&article.OwnerID,
		&category,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	article.Category = domain.Category(category)
	return &article, nil
}

func scanArticleWithOwner(scanner interface {
	Scan(dest ...any) error
}) (*domain.Article, error) {
	var (
		article       domain.Article
		category      string
		ownerID       sql.NullString
		ownerFullName sql.NullString
		ownerEmail    sql.NullString
		ownerAge      sql.NullInt64
	)
	if err := scanner.Scan(
		&article.ID,
		&article.Title,
		&article.Subtitle,
		&article.Description,
		&article.OwnerID,
		&category,
		&article.CreatedAt,
		&article.UpdatedAt,
		&ownerID,
		&ownerFullName,
		&ownerEmail,
		&ownerAge,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	article.Category = domain.Category(category)
	if ownerID.Valid {
		article.Owner = &domain.Owner{
			ID:       ownerID.String,
			FullName: ownerFullName.String,
			Email:    ownerEmail.String,
			Age:      int(ownerAge.Int64),
		}
	}
	return &article, nil
}
