package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"content-api/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	articles service.ArticleService
	users    service.UserService
	logger   *logrus.Logger
}

func NewHandler(articles service.ArticleService, users service.UserService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		articles: articles,
		users:    users,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	api.Use(errorHandler(h.logger))
	{
		api.GET("/articles", h.listArticles)
		api.GET("/articles/:id", h.getArticle)
		api.POST("/articles", h.createArticle)
		api.PUT("/articles/:id", h.updateArticle)
		api.DELETE("/articles/:id", h.deleteArticle)

		api.GET("/users", h.listUsers)
		api.GET("/users/:id", h.getUser)
		api.POST("/users", h.createUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
