package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/handler"
	"github.com/iliyamo/course-booking/internal/middleware"
	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/repository"
)

// RegisterCourse wires every Course service route.
//
// Three tiers of protection apply: public browse endpoints take an
// optional session, instructor management endpoints require a session
// with the instructor role, and the reservation endpoints sit behind
// the shared service secret plus the end user's session, since they
// are only ever called by the Order service on a user's behalf.
func RegisterCourse(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, h *handler.CourseHandler, sessions *repository.SessionRepo, jwtSecret, srvSecret string, clk clock.Clock) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/auth")
	auth.POST("/signup", a.Signup)
	auth.POST("/signin", a.Signin)
	auth.POST("/signout", a.Signout)

	session := middleware.SessionAuth(jwtSecret, sessions, clk)
	optional := middleware.OptionalSessionAuth(jwtSecret, sessions, clk)
	srv := middleware.SrvAuth(srvSecret)

	e.GET("/users/profile", u.Profile, session)

	e.GET("/courses", h.List, optional)
	e.GET("/courses/:id", h.Get, optional)

	instructor := e.Group("/courses", session, middleware.RequireRole(model.RoleInstructor))
	instructor.POST("", h.Create)
	instructor.PATCH("/:id", h.Update)
	instructor.PATCH("/:id/price", h.UpdatePrice)

	// Reservation endpoints: service credential first, then the user
	// session the Order service propagates.
	booking := e.Group("/courses", srv, session)
	booking.PATCH("/:id/reserveSeat", h.ReserveSeat, middleware.RequireRole(model.RoleUser))
	booking.PATCH("/:id/confirm", h.ConfirmBooking, middleware.RequireRole(model.RoleUser))
	booking.PATCH("/:id/releaseSeat", h.ReleaseSeat)
}
