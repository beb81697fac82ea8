package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/service"
	"github.com/prohmpiriya/storefront-console/pkg/response"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
)

// SessionHandler handles login, registration and the caller's profile
type SessionHandler struct {
	accounts service.AccountService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(accounts service.AccountService) *SessionHandler {
	return &SessionHandler{accounts: accounts}
}

// TokenRequest adopts a token obtained outside the console
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Login handles POST /session/login
func (h *SessionHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.session.login")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	identity, err := h.accounts.Login(ctx, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, identity)
}

// Register handles POST /session/register
func (h *SessionHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.session.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req domain.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	identity, err := h.accounts.Register(ctx, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, identity)
}

// AdoptToken handles POST /session/token
func (h *SessionHandler) AdoptToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	identity, err := h.accounts.AdoptToken(c.Request.Context(), req.Token)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, identity)
}

// Logout handles DELETE /session
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Current handles GET /session
func (h *SessionHandler) Current(c *gin.Context) {
	identity, err := h.accounts.Current()
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, identity)
}

// UpdateProfile handles PUT /session/profile
func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.accounts.UpdateProfile(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Profile updated"})
}
