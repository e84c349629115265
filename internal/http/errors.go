package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"content-api/internal/domain"
	"content-api/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrArticleNotFound, http.StatusNotFound, "Article not found"},
	{service.ErrOwnerNotFound, http.StatusNotFound, "Owner not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrUpdateForbidden, http.StatusForbidden, "Unauthorized to update this article"},
	{service.ErrDeleteForbidden, http.StatusForbidden, "Unauthorized to delete this article"},
}

// fail hands err to errorHandler, which renders the response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// failBind records a malformed request body or query string.
func failBind(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
}

// errorHandler turns the last error recorded by a handler into a JSON response.
func errorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		if last.IsType(gin.ErrorTypeBind) {
			c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
			return
		}

		for _, se := range serviceErrors {
			if errors.Is(err, se.err) {
				c.JSON(se.status, messageResponse{Message: se.message})
				return
			}
		}

		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, validationResponse{
				Message: verr.Error(),
				Errors:  verr.Fields,
			})
			return
		}

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal server error"})
	}
}
