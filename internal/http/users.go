package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"content-api/internal/domain"
	"content-api/internal/service"
)

type createUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Age       *int   `json:"age"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Age       *int    `json:"age"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]UserSummaryResponse, len(users))
	for i, u := range users {
		resp[i] = UserSummaryResponse{
			ID:       u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Age:      u.Age,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	profile, err := h.users.GetUserWithArticles(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, userProfileToResponse(profile))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), service.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      domain.Role(req.Role),
		Age:       req.Age,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), service.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "User and associated articles deleted successfully"})
}
