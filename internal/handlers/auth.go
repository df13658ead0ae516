package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskstack/todo-api/internal/dto"
	"github.com/taskstack/todo-api/internal/middleware"
	"github.com/taskstack/todo-api/internal/problem"
	"github.com/taskstack/todo-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Validation(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Validation(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresIn:   result.ExpiresIn,
		User:        dto.ToUserDTO(*result.User),
	})
}

// Logout records the event. Tokens are stateless, so invalidation is a
// client-side discard.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		problem.Unauthorized(c, "")
		return
	}

	h.authService.Logout(identity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		problem.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(identity.UserID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondAuthError(c *gin.Context, err error) {
	var weakPassword *services.WeakPasswordError

	switch {
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidUsername):
		problem.Validation(c, capitalize(err.Error()))
	case errors.As(err, &weakPassword):
		problem.Validation(c, weakPassword.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrDuplicateIdentity):
		problem.Conflict(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		problem.Unauthorized(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		problem.NotFound(c, capitalize(err.Error()))
	default:
		problem.Database(c)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
