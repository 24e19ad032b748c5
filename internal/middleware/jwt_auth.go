package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUser   = "user"
	ContextUserID = "userID"
)

// SessionLookup returns the current session of a user.
type SessionLookup interface {
	Session(ctx context.Context, userID string) (models.Session, error)
}

// JWTAuthMiddleware checks for a valid JWT and extracts user claims. The
// token must also be the one stored in the user's session, so logging out
// revokes it.
func JWTAuthMiddleware(jwtSecret string, sessions SessionLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if !token.Valid || claims.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			sess, err := sessions.Session(c.Request().Context(), claims.UserID)
			if err != nil || sess.Token != tokenString {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
			}

			c.Set(ContextUser, claims)
			c.Set(ContextUserID, claims.UserID)

			return next(c)
		}
	}
}
