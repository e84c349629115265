package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"content-api/internal/domain"
	"content-api/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ArticleQuery selects one page of the article listing.
type ArticleQuery struct {
	Title string
	Page  int
	Limit int
}

// ArticlePage is one window of the article listing plus paging totals.
type ArticlePage struct {
	Articles      []domain.Article
	CurrentPage   int
	TotalPages    int
	TotalArticles int
}

// ArticleInput carries the fields accepted on article create and update.
type ArticleInput struct {
	Title       string
	Subtitle    string
	Description string
	OwnerID     string
	Category    domain.Category
}

// ArticleService coordinates article operations and owner bookkeeping.
type ArticleService interface {
	ListArticles(ctx context.Context, q ArticleQuery) (*ArticlePage, error)
	GetArticle(ctx context.Context, id string) (*domain.Article, error)
	CreateArticle(ctx context.Context, in ArticleInput) (*domain.Article, error)
	UpdateArticle(ctx context.Context, id string, in ArticleInput) (*domain.Article, error)
	DeleteArticle(ctx context.Context, id, ownerID string) error
}

type articleService struct {
	store  repository.Store
	logger *logrus.Logger
	now    func() time.Time
}

func NewArticleService(store repository.Store, logger *logrus.Logger) ArticleService {
	if logger == nil {
		logger = logrus.New()
	}
	return &articleService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ListArticles pages through articles whose title contains q.Title.
// Page and limit are used as given: a zero limit returns every match on a
// single page and a negative limit returns at most |limit| rows. The skip is
// (page-1)*limit; a negative skip starts at the first row and a skip past any
// storable row yields an empty page.
func (s *articleService) ListArticles(ctx context.Context, q ArticleQuery) (*ArticlePage, error) {
	repo := s.store.Repositories().Articles
	filter := repository.ArticleFilter{Title: q.Title}

	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	articles := []domain.Article{}
	if offset, ok := pageOffset(q.Page, q.Limit); ok {
		articles, err = repo.List(ctx, filter, offset, pageWindow(q.Limit))
		if err != nil {
			return nil, fmt.Errorf("list articles: %w", err)
		}
	}

	return &ArticlePage{
		Articles:      articles,
		CurrentPage:   q.Page,
		TotalPages:    totalPages(total, q.Limit),
		TotalArticles: total,
	}, nil
}

// maxOffset bounds skips that float64 still represents exactly. No table
// reaches it, so anything larger is past the end.
const maxOffset = 1 << 53

// pageOffset returns the rows to skip for page, or false when the page
// starts beyond the last storable row.
func pageOffset(page, limit int) (int, bool) {
	skip := (float64(page) - 1) * float64(limit)
	switch {
	case skip <= 0:
		return 0, true
	case skip >= maxOffset:
		return 0, false
	}
	return int(skip), true
}

// pageWindow converts limit into a row bound for the repository, where a
// negative bound means unbounded.
func pageWindow(limit int) int {
	switch {
	case limit == 0:
		return -1
	case limit == math.MinInt:
		return math.MaxInt
	case limit < 0:
		return -limit
	}
	return limit
}

// totalPages is ceil(total/|limit|). A zero limit puts everything on one page.
func totalPages(total, limit int) int {
	switch {
	case total <= 0:
		return 0
	case limit == 0, limit == math.MinInt:
		return 1
	case limit < 0:
		limit = -limit
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

func (s *articleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.store.Repositories().Articles.GetWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return article, nil
}

// CreateArticle stores the article and bumps the owner's counter atomically.
func (s *articleService) CreateArticle(ctx context.Context, in ArticleInput) (*domain.Article, error) {
	article := &domain.Article{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		Category:    in.Category,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Users.Get(ctx, in.OwnerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOwnerNotFound
			}
			return fmt.Errorf("get owner: %w", err)
		}

		article.Normalize()
		if err := domain.ValidateArticle(article); err != nil {
			return err
		}

		if err := repos.Articles.Create(ctx, article); err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		if err := repos.Users.AdjustArticleCount(ctx, in.OwnerID, 1); err != nil {
			return fmt.Errorf("increment owner articles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"article_id": article.ID,
		"owner_id":   article.OwnerID,
	}).Debug("article created")
	return article, nil
}

// UpdateArticle rewrites the content fields of an article owned by in.OwnerID.
// The owner reference itself never changes.
func (s *articleService) UpdateArticle(ctx context.Context, id string, in ArticleInput) (*domain.Article, error) {
	var updated *domain.Article
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		article, err := repos.Articles.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrArticleNotFound
			}
			return fmt.Errorf("get article: %w", err)
		}

		if _, err := repos.Users.Get(ctx, in.OwnerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOwnerNotFound
			}
			return fmt.Errorf("get owner: %w", err)
		}

		if article.OwnerID != in.OwnerID {
			return ErrUpdateForbidden
		}

		article.Title = in.Title
		article.Subtitle = in.Subtitle
		article.Description = in.Description
		article.Category = in.Category
		article.UpdatedAt = s.now().UTC()
		article.Normalize()
		if err := domain.ValidateArticle(article); err != nil {
			return err
		}

		if err := repos.Articles.Update(ctx, article); err != nil {
			return fmt.Errorf("update article: %w", err)
		}
		updated = article
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("article_id", id).Debug("article updated")
	return updated, nil
}

// DeleteArticle decrements the owner's counter and removes the article atomically.
func (s *articleService) DeleteArticle(ctx context.Context, id, ownerID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		article, err := repos.Articles.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrArticleNotFound
			}
			return fmt.Errorf("get article: %w", err)
		}

		if article.OwnerID != ownerID {
			return ErrDeleteForbidden
		}

		if err := repos.Users.AdjustArticleCount(ctx, ownerID, -1); err != nil {
			return fmt.Errorf("decrement owner articles: %w", err)
		}
		if err := repos.Articles.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"article_id": id,
		"owner_id":   ownerID,
	}).Debug("article deleted")
	return nil
}
