package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/service"
	"github.com/prohmpiriya/storefront-console/pkg/response"
)

// UserHandler handles admin user management
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserUpdateRequest is the body of an admin user update
type UserUpdateRequest struct {
	Role   string `json:"role" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// userFilter reads ?role= and ?status=
func userFilter(c *gin.Context) (policy.UserFilter, error) {
	return policy.ParseUserFilter(c.Query("role"), c.Query("status"))
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	f, err := userFilter(c)
	if err != nil {
		bindError(c, err)
		return
	}

	users, err := h.users.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, users, len(users))
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	upd := domain.UserUpdate{Role: domain.ParseRole(req.Role), Status: domain.UserStatus(req.Status)}
	users, err := h.users.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, users, len(users))
}
