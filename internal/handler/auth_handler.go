package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"modion/internal/auth"
	apperrors "modion/internal/errors"
	"modion/internal/middleware"
	"modion/internal/model"
	"modion/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService   service.AuthService
	tokenTTL      time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. Session cookies carry the Secure
// flag only when secureCookies is set.
func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL, secureCookies: secureCookies}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// StatusResponse wraps the current user.
type StatusResponse struct {
	User UserResponse `json:"user"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("All fields are required")
	}

	session, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Server error")
	}

	return h.sendToken(c, http.StatusCreated, session)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest("Email and password are required")
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Server error")
	}

	return h.sendToken(c, http.StatusOK, session)
}

// Status godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/status [get]
func (h *AuthHandler) Status(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Not authenticated"})
	}
	return c.JSON(http.StatusOK, StatusResponse{User: toUserResponse(user)})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the current token and clears the session cookie.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Not authenticated"})
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Server error")
	}

	c.SetCookie(h.cookie("", -1))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) sendToken(c echo.Context, status int, session *service.Session) error {
	c.SetCookie(h.cookie(session.Token, int(h.tokenTTL.Seconds())))
	return c.JSON(status, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   session.Token,
		User:    toUserResponse(session.User),
	})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
