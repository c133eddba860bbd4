// Package middleware holds the request gate for authenticated routes.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"modion/internal/auth"
	apperrors "modion/internal/errors"
	"modion/internal/model"
	"modion/internal/service"
)

// Context keys set by the auth gate.
const (
	ClaimsKey = "claims"
	UserKey   = "user"
)

// JWT extracts a bearer token from the Authorization header, or else the
// session cookie, and stores its claims under ClaimsKey.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + auth.CookieName,
		ContextKey:  ClaimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractErr *echojwt.TokenExtractionError
			if errors.As(err, &extractErr) {
				return unauthorized("Unauthorized: No token provided")
			}
			return unauthorized("Unauthorized: Invalid token")
		},
	})
}

// ResolveUser loads the user behind the claims set by JWT and stores it under UserKey.
func ResolveUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentClaims(c)
			if !ok {
				return unauthorized("Unauthorized: Invalid token")
			}

			user, err := authService.Identify(c.Request().Context(), claims)
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrUserNotFound):
					return unauthorized(apperrors.ErrUserNotFound.Error())
				case errors.Is(err, apperrors.ErrTokenRevoked):
					return unauthorized("Unauthorized: Invalid token")
				}
				slog.Error("resolve user failed", "user_id", claims.UserID, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Message: "Server error",
					Error:   err.Error(),
				})
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// RequireAuth chains JWT and ResolveUser.
func RequireAuth(jwtService *auth.JWTService, authService service.AuthService) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{JWT(jwtService), ResolveUser(authService)}
}

// CurrentClaims returns the validated token claims of the request.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// CurrentUser returns the user resolved for the request.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserKey).(*model.User)
	return user, ok && user != nil
}

func unauthorized(message string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: message})
}
