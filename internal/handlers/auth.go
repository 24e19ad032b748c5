package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository    repositories.UserRepository
	sessionRepository repositories.SessionRepository
	firebaseAuth      IDTokenVerifier
	jwtSecret         string
	tokenTTL          time.Duration
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which
// disables Firebase login.
func NewAuthHandler(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	firebaseAuth IDTokenVerifier,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		firebaseAuth:      firebaseAuth,
		jwtSecret:         jwtSecret,
		tokenTTL:          tokenTTL,
	}
}

// RegisterAuthRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterSessionRoutes registers auth routes that need a signed-in user
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/session", h.GetSession)
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.userRepository.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, "Username or email already registered")
		}
		return toHTTPError(err)
	}
	return h.startSession(c, http.StatusCreated, user)
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.Authenticate(c.Request().Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	user, err = h.userRepository.SetPresence(c.Request().Context(), user.ID, true)
	if err != nil {
		return toHTTPError(err)
	}
	return h.startSession(c, http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a verified Firebase ID token for a local session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email")
	}
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.EnsureExternalUser(c.Request().Context(), email, name)
	if err != nil {
		return toHTTPError(err)
	}
	user, err = h.userRepository.SetPresence(c.Request().Context(), user.ID, true)
	if err != nil {
		return toHTTPError(err)
	}
	return h.startSession(c, http.StatusOK, user)
}

// Logout clears the session and marks the user offline
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.sessionRepository.ClearSession(c.Request().Context(), userID); err != nil {
		return toHTTPError(err)
	}
	if _, err := h.userRepository.SetPresence(c.Request().Context(), userID, false); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSession returns the stored session user of the caller
func (h *AuthHandler) GetSession(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	sess, err := h.sessionRepository.Session(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":     sess.User,
			"issuedAt": sess.IssuedAt,
		},
	})
}

func (h *AuthHandler) startSession(c echo.Context, status int, user models.User) error {
	now := time.Now()
	token, err := h.generateJWT(user, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	err = h.sessionRepository.SaveSession(c.Request().Context(), models.Session{
		UserID:   user.ID,
		Token:    token,
		User:     user,
		IssuedAt: now,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(status, echo.Map{
		"success": true,
		"data": echo.Map{
			"token": token,
			"user":  user.Sanitized(),
		},
	})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user models.User, now time.Time) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
