package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/auth"
	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/repository"
)

// HeaderSession is the request header carrying the user session token.
const HeaderSession = "x-session"

// SessionAuth returns an Echo middleware that validates the x-session
// token and injects the authenticated identity into the request
// context.  The token must both verify against the signing secret and
// still be present in the session store, so signout revokes it even
// before its expiry.  Handlers read the identity via c.Get("user_id"),
// c.Get("email") and c.Get("role"); the raw token stays available
// under c.Get("session") for revocation and RPC propagation.
func SessionAuth(secret string, sessions *repository.SessionRepo, clk clock.Clock) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderSession)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
			}
			claims, err := auth.ParseSession(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			ok, err := sessions.Has(c.Request().Context(), raw, clk.Now())
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session revoked or expired"})
			}
			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			c.Set("session", raw)
			return next(c)
		}
	}
}

// OptionalSessionAuth is the lenient variant for endpoints that serve
// both anonymous and authenticated callers.  A valid live session
// populates the context the same way SessionAuth does; a missing or
// bad token just leaves the request anonymous.
func OptionalSessionAuth(secret string, sessions *repository.SessionRepo, clk clock.Clock) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderSession)
			if raw == "" {
				return next(c)
			}
			claims, err := auth.ParseSession(secret, raw)
			if err != nil {
				return next(c)
			}
			if ok, err := sessions.Has(c.Request().Context(), raw, clk.Now()); err != nil || !ok {
				return next(c)
			}
			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			c.Set("session", raw)
			return next(c)
		}
	}
}
