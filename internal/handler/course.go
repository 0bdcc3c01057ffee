package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/config"
	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/queue"
	"github.com/iliyamo/course-booking/internal/repository"
	"github.com/iliyamo/course-booking/internal/reservation"
	queue_publisher "github.com/iliyamo/course-booking/internal/service"
)

// CourseHandler bundles dependencies for course and reservation
// endpoints.
type CourseHandler struct {
	Cfg     config.CourseConfig
	Courses *repository.CourseRepo
	Engine  *reservation.Engine
	Clk     clock.Clock
}

func NewCourseHandler(cfg config.CourseConfig, courses *repository.CourseRepo, engine *reservation.Engine, clk clock.Clock) *CourseHandler {
	return &CourseHandler{Cfg: cfg, Courses: courses, Engine: engine, Clk: clk}
}

type createCourseReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Price   int64  `json:"price"`
	Seats   int    `json:"seats"`
}
type updateCourseReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Seats   *int    `json:"seats"`
}
type updatePriceReq struct {
	Price int64 `json:"price"`
}

// Create handles POST /courses.  Instructors only; the creator becomes
// the course owner and the version starts at 1.
func (h *CourseHandler) Create(c echo.Context) error {
	instructorID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCourseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Seats < 0 || req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats and price must be non-negative"})
	}

	now := h.Clk.Now()
	course := &model.Course{
		ID:           uuid.New(),
		Title:        req.Title,
		Content:      req.Content,
		PriceCents:   req.Price,
		Seats:        req.Seats,
		InstructorID: instructorID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Courses.Create(c.Request().Context(), course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create course failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": course})
}

// List handles GET /courses with skip/limit pagination.  An
// authenticated instructor sees only their own courses; everyone else
// sees the full catalogue.
func (h *CourseHandler) List(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	var instructorID *uuid.UUID
	if role, _ := c.Get("role").(string); role == model.RoleInstructor {
		if id, ok := c.Get("user_id").(uuid.UUID); ok {
			instructorID = &id
		}
	}
	courses, err := h.Courses.List(c.Request().Context(), instructorID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list courses failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": courses})
}

// Get handles GET /courses/:id.
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": course})
}

// Update handles PATCH /courses/:id.  Only the owning instructor may
// update; every successful update bumps the version.
func (h *CourseHandler) Update(c echo.Context) error {
	var req updateCourseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.updateOwned(c, func(course *model.Course) error {
		if req.Title != nil {
			t := strings.TrimSpace(*req.Title)
			if t == "" {
				return errors.New("title cannot be empty")
			}
			course.Title = t
		}
		if req.Content != nil {
			course.Content = *req.Content
		}
		if req.Seats != nil {
			if *req.Seats < 0 {
				return errors.New("seats must be non-negative")
			}
			course.Seats = *req.Seats
		}
		return nil
	})
}

// UpdatePrice handles PATCH /courses/:id/price.
func (h *CourseHandler) UpdatePrice(c echo.Context) error {
	var req updatePriceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.updateOwned(c, func(course *model.Course) error {
		if req.Price < 0 {
			return errors.New("price must be non-negative")
		}
		course.PriceCents = req.Price
		return nil
	})
}

// updateOwned loads the course, enforces ownership, applies mutate and
// persists with a version bump.
func (h *CourseHandler) updateOwned(c echo.Context, mutate func(*model.Course) error) error {
	instructorID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if course.InstructorID != instructorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := mutate(course); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	course.Version++
	course.UpdatedAt = h.Clk.Now()
	if err := h.Courses.Update(ctx, course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": course})
}

// ReserveSeat handles PATCH /courses/:id/reserveSeat.  A fresh hold and
// an idempotent re-reserve both succeed with the current reservation.
func (h *CourseHandler) ReserveSeat(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, isNew, err := h.Engine.ReserveWithRetry(c.Request().Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		case errors.Is(err, reservation.ErrSeatsUnavailable), errors.Is(err, reservation.ErrReservationFailed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reserve failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res, "isNew": isNew})
}

// ConfirmBooking handles PATCH /courses/:id/confirm.  On success the
// seat deduction is permanent and a booking.confirmed event goes out
// best-effort.
func (h *CourseHandler) ConfirmBooking(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Engine.Confirm(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		case errors.Is(err, reservation.ErrInvalidReservation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
		}
	}

	course, err := h.Courses.GetByID(ctx, id)
	if err == nil && h.Cfg.AMQPURL != "" {
		email, _ := c.Get("email").(string)
		ev := queue.BookingConfirmedEvent{
			CourseID:      course.ID.String(),
			CourseTitle:   course.Title,
			CourseVersion: course.Version,
			UserID:        userID.String(),
			Email:         email,
			PriceCents:    course.PriceCents,
			SeatsLeft:     course.Seats,
			ConfirmedAt:   h.Clk.Now().Format(time.RFC3339),
		}
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishBookingConfirmed(pctx, h.Cfg.AMQPURL, ev)
		}()
	}
	return c.JSON(http.StatusOK, echo.Map{"data": "booking confirmed"})
}

// ReleaseSeat handles PATCH /courses/:id/releaseSeat.  This is the
// compensation path: releasing an absent or already collapsed hold is
// a no-op that still succeeds.
func (h *CourseHandler) ReleaseSeat(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	released := h.Engine.Release(id, userID, h.Clk.Now())
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"released": released}})
}
