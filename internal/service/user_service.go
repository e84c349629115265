package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"content-api/internal/domain"
	"content-api/internal/repository"
)

// UserInput carries the fields accepted when creating a user.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role
	Age       *int
}

// UserUpdate carries the editable profile fields. Nil fields keep their stored value.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Age       *int
}

// UserWithArticles is a user profile with the articles it owns.
type UserWithArticles struct {
	User     domain.User
	Articles []domain.Article
}

// UserService describes user lifecycle operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserWithArticles(ctx context.Context, id string) (*UserWithArticles, error)
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	store  repository.Store
	logger *logrus.Logger
}

func NewUserService(store repository.Store, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		store:  store,
		logger: logger,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Repositories().Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUserWithArticles(ctx context.Context, id string) (*UserWithArticles, error) {
	repos := s.store.Repositories()

	user, err := repos.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	articles, err := repos.Articles.ListByOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list user articles: %w", err)
	}

	return &UserWithArticles{User: *user, Articles: articles}, nil
}

func (s *userService) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	user := &domain.User{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      in.Role,
	}
	if in.Age != nil {
		user.Age = *in.Age
	}
	user.Normalize()
	if err := validateUser(user, in.Age != nil); err != nil {
		return nil, err
	}

	if err := s.store.Repositories().Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Debug("user created")
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error) {
	var updated *domain.User
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		user, err := repos.Users.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}

		if in.FirstName != nil {
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
		}
		if in.Age != nil {
			user.Age = *in.Age
		}
		user.Normalize()
		if err := validateUser(user, in.Age != nil); err != nil {
			return err
		}

		if err := repos.Users.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", id).Debug("user updated")
	return updated, nil
}

func validateUser(user *domain.User, ageGiven bool) error {
	if ageGiven {
		return domain.ValidateUserWithAge(user)
	}
	return domain.ValidateUser(user)
}

// DeleteUser removes the user and every article it owns in one transaction.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	var removed int64
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("delete user: %w", err)
		}

		n, err := repos.Articles.DeleteByOwner(ctx, id)
		if err != nil {
			return fmt.Errorf("cascade delete articles: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  id,
		"articles": removed,
	}).Debug("user deleted")
	return nil
}
