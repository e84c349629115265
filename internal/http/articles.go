package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"content-api/internal/domain"
	"content-api/internal/service"
)

type listArticlesQuery struct {
	Title string `form:"title"`
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=10"`
}

type articleRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerId"`
	Category    string `json:"category"`
}

func (r articleRequest) toInput() service.ArticleInput {
	return service.ArticleInput{
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Category:    domain.Category(r.Category),
	}
}

type deleteArticleRequest struct {
	OwnerID string `json:"ownerId"`
}

func (h *Handler) listArticles(c *gin.Context) {
	var q listArticlesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failBind(c, err)
		return
	}

	page, err := h.articles.ListArticles(c.Request.Context(), service.ArticleQuery{
		Title: q.Title,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, articlePageToResponse(page))
}

func (h *Handler) getArticle(c *gin.Context) {
	article, err := h.articles.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, articleToResponse(*article))
}

func (h *Handler) createArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}

	article, err := h.articles.CreateArticle(c.Request.Context(), req.toInput())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, articleToResponse(*article))
}

func (h *Handler) updateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}

	article, err := h.articles.UpdateArticle(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, articleToResponse(*article))
}

func (h *Handler) deleteArticle(c *gin.Context) {
	var req deleteArticleRequest
	// an empty body leaves ownerId blank, which never matches an owner
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		failBind(c, err)
		return
	}

	if err := h.articles.DeleteArticle(c.Request.Context(), c.Param("id"), req.OwnerID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Article deleted successfully"})
}
