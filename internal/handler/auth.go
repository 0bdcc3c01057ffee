package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/auth"
	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/config"
	"github.com/iliyamo/course-booking/internal/middleware"
	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/repository"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.CourseConfig
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Clk      clock.Clock
}

func NewAuthHandler(cfg config.CourseConfig, users *repository.UserRepo, sessions *repository.SessionRepo, clk clock.Clock) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions, Clk: clk}
}

// ----- DTOs -----

type signupReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"` // user | instructor
}
type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type signinResp struct {
	Session string    `json:"session"`
	UserID  uuid.UUID `json:"userId"`
	Expires time.Time `json:"expires"`
}

// Signup creates a user account with a bcrypt-hashed password.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != model.RoleInstructor {
		role = model.RoleUser
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := h.Clk.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": user})
}

// Signin verifies the credentials and issues a session token.  The
// token is recorded in the session store so signout can revoke it.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ttl := time.Duration(h.Cfg.SessionTTLMin) * time.Minute
	sess, err := auth.NewSession(h.Cfg.JWTSecret, user.ID, user.Email, user.Role, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	if err := h.Sessions.Add(ctx, sess.Token, sess.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": signinResp{
		Session: sess.Token,
		UserID:  user.ID,
		Expires: sess.Exp,
	}})
}

// Signout revokes the presented session token.
func (h *AuthHandler) Signout(c echo.Context) error {
	raw := c.Request().Header.Get(middleware.HeaderSession)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
	}
	ok, err := h.Sessions.Revoke(c.Request().Context(), raw)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": "signed out"})
}
