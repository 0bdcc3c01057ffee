package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HeaderSrvSession is the request header carrying the shared
// service-to-service credential.
const HeaderSrvSession = "x-srv-session"

// SrvAuth returns an Echo middleware that gates internal endpoints
// behind the shared service secret.  The header value must match the
// configured secret exactly; comparison is constant time.
func SrvAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(HeaderSrvSession)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid service session"})
			}
			return next(c)
		}
	}
}
