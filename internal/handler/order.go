package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/client"
	"github.com/iliyamo/course-booking/internal/middleware"
	"github.com/iliyamo/course-booking/internal/order"
	"github.com/iliyamo/course-booking/internal/payment"
	"github.com/iliyamo/course-booking/internal/reservation"
)

// OrderHandler bundles dependencies for order endpoints.  The handler
// does not authenticate the session itself; the orchestrator resolves
// the principal through the Course service, which is the authority on
// session validity.
type OrderHandler struct {
	Orders *order.Orchestrator
}

func NewOrderHandler(orders *order.Orchestrator) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type createOrderReq struct {
	CourseID uuid.UUID `json:"courseId"`
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c echo.Context) error {
	session := c.Request().Header.Get(middleware.HeaderSession)
	if session == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil || req.CourseID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "courseId required"})
	}
	ord, err := h.Orders.CreateOrder(c.Request().Context(), session, req.CourseID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": ord})
}

// Pay handles POST /orders/:id/pay.
func (h *OrderHandler) Pay(c echo.Context) error {
	session := c.Request().Header.Get(middleware.HeaderSession)
	if session == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var card payment.Card
	if err := c.Bind(&card); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ord, err := h.Orders.PayOrder(c.Request().Context(), session, id, card)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ord})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	session := c.Request().Header.Get(middleware.HeaderSession)
	if session == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ord, err := h.Orders.GetOrder(c.Request().Context(), session, id)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ord})
}

// orderError maps the saga's error taxonomy onto HTTP statuses.
func orderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, client.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, order.ErrAlreadyPurchased):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course already purchased"})
	case errors.Is(err, order.ErrInvalidOrder):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order"})
	case errors.Is(err, payment.ErrInvalidPaymentMethod):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	case errors.Is(err, reservation.ErrSeatsUnavailable), errors.Is(err, reservation.ErrInvalidReservation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, client.ErrUpstreamUnavailable):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "course service unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
