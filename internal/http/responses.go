package http

import (
	"time"

	"content-api/internal/domain"
	"content-api/internal/service"
)

type OwnerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
}

type ArticleResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Description string          `json:"description"`
	OwnerID     string          `json:"ownerId"`
	Owner       *OwnerResponse  `json:"owner,omitempty"`
	Category    domain.Category `json:"category"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type ArticlePageResponse struct {
	Articles      []ArticleResponse `json:"articles"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalArticles int               `json:"totalArticles"`
}

type UserResponse struct {
	ID               string      `json:"id"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	FullName         string      `json:"fullName"`
	Email            string      `json:"email"`
	Role             domain.Role `json:"role"`
	Age              int         `json:"age"`
	NumberOfArticles int         `json:"numberOfArticles"`
	CreatedAt        string      `json:"createdAt"`
	UpdatedAt        string      `json:"updatedAt"`
}

// UserSummaryResponse is the reduced user shape returned by the listing.
type UserSummaryResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
}

// UserArticleResponse is the reduced article shape nested in a user profile.
type UserArticleResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	CreatedAt string         `json:"createdAt"`
	Owner     *OwnerResponse `json:"owner,omitempty"`
}

type UserProfileResponse struct {
	ID        string                `json:"id"`
	FirstName string                `json:"firstName"`
	LastName  string                `json:"lastName"`
	FullName  string                `json:"fullName"`
	Email     string                `json:"email"`
	Age       int                   `json:"age"`
	Articles  []UserArticleResponse `json:"articles"`
}

func ownerToResponse(owner *domain.Owner) *OwnerResponse {
	if owner == nil {
		return nil
	}
	return &OwnerResponse{
		ID:       owner.ID,
		FullName: owner.FullName,
		Email:    owner.Email,
		Age:      owner.Age,
	}
}

func articleToResponse(article domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:          article.ID,
		Title:       article.Title,
		Subtitle:    article.Subtitle,
		Description: article.Description,
		OwnerID:     article.OwnerID,
		Owner:       ownerToResponse(article.Owner),
		Category:    article.Category,
		CreatedAt:   article.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   article.UpdatedAt.Format(time.RFC3339),
	}
}

func articlePageToResponse(page *service.ArticlePage) ArticlePageResponse {
	resp := ArticlePageResponse{
		Articles:      make([]ArticleResponse, len(page.Articles)),
		CurrentPage:   page.CurrentPage,
		TotalPages:    page.TotalPages,
		TotalArticles: page.TotalArticles,
	}
	for i := range page.Articles {
		resp.Articles[i] = articleToResponse(page.Articles[i])
	}
	return resp
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		FullName:         user.FullName,
		Email:            user.Email,
		Role:             user.Role,
		Age:              user.Age,
		NumberOfArticles: user.NumberOfArticles,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        user.UpdatedAt.Format(time.RFC3339),
	}
}

func userProfileToResponse(profile *service.UserWithArticles) UserProfileResponse {
	resp := UserProfileResponse{
		ID:        profile.User.ID,
		FirstName: profile.User.FirstName,
		LastName:  profile.User.LastName,
		FullName:  profile.User.FullName,
		Email:     profile.User.Email,
		Age:       profile.User.Age,
		Articles:  make([]UserArticleResponse, len(profile.Articles)),
	}
	for i, a := range profile.Articles {
		resp.Articles[i] = UserArticleResponse{
			ID:        a.ID,
			Title:     a.Title,
			Subtitle:  a.Subtitle,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
			Owner:     ownerToResponse(a.Owner),
		}
	}
	return resp
}
