// Package client wraps the service-to-service HTTP calls the Order
// service makes against the Course service.  Every request carries the
// shared x-srv-session service credential; the end user's x-session is
// propagated per call.  Idempotent calls are retried a bounded number
// of times on network errors and 5xx responses with a fixed wait, and
// only return early on success or a non-retryable status; exhausting
// the budget surfaces ErrUpstreamUnavailable.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/reservation"
)

// Header names of the two credentials in the cross-service contract.
const (
	HeaderSession    = "x-session"
	HeaderSrvSession = "x-srv-session"
)

// ErrUnauthorized is returned when the Course service rejects the
// session (or service) credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned when the Course service reports an unknown
// course or user.
var ErrNotFound = errors.New("not found")

// ErrUpstreamUnavailable is returned once the retry budget is
// exhausted against network errors or 5xx responses.
var ErrUpstreamUnavailable = errors.New("course service unavailable")

// CourseClient is the retrying RPC client for the Course service.
type CourseClient struct {
	http *resty.Client
}

// New builds a CourseClient.  attempts is the total number of tries
// per call (minimum 1); wait is the fixed delay between retries.
func New(baseURL, srvSession string, attempts int, wait time.Duration) *CourseClient {
	if attempts < 1 {
		attempts = 1
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader(HeaderSrvSession, srvSession).
		SetRetryCount(attempts - 1).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(wait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &CourseClient{http: c}
}

// Profile resolves the authenticated principal for a session.
func (c *CourseClient) Profile(ctx context.Context, session string) (*model.User, error) {
	var out struct {
		Data model.User `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderSession, session).
		SetResult(&out).
		Get("/users/profile")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if err := checkStatus(resp, nil); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetCourse fetches the current course snapshot (price, version, seats).
func (c *CourseClient) GetCourse(ctx context.Context, session string, courseID uuid.UUID) (*model.Course, error) {
	var out struct {
		Data model.Course `json:"data"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderSession, session).
		SetResult(&out).
		Get("/courses/" + courseID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if err := checkStatus(resp, nil); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ReserveSeat asks the reservation engine for a temporary hold on
// behalf of the session's user.  A 400 maps to ErrSeatsUnavailable.
func (c *CourseClient) ReserveSeat(ctx context.Context, session string, courseID uuid.UUID) error {
	return c.patch(ctx, session, "/courses/"+courseID.String()+"/reserveSeat", reservation.ErrSeatsUnavailable)
}

// ConfirmBooking converts the user's hold into a permanent seat
// deduction.  A 400 maps to ErrInvalidReservation.
func (c *CourseClient) ConfirmBooking(ctx context.Context, session string, courseID uuid.UUID) error {
	return c.patch(ctx, session, "/courses/"+courseID.String()+"/confirm", reservation.ErrInvalidReservation)
}

// ReleaseSeat drops the user's hold early.  It is the compensation
// call used when an order lapses or a confirm diverges from the local
// commit; releasing an absent hold succeeds.
func (c *CourseClient) ReleaseSeat(ctx context.Context, session string, courseID uuid.UUID) error {
	return c.patch(ctx, session, "/courses/"+courseID.String()+"/releaseSeat", nil)
}

func (c *CourseClient) patch(ctx context.Context, session, path string, badRequest error) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderSession, session).
		Patch(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return checkStatus(resp, badRequest)
}

// checkStatus maps a response to the error taxonomy.  badRequest, when
// non-nil, is the sentinel a 400 response wraps for this call.
func checkStatus(resp *resty.Response, badRequest error) error {
	code := resp.StatusCode()
	switch {
	case code < 300:
		return nil
	case code == 401:
		return fmt.Errorf("%w: %s", ErrUnauthorized, errBody(resp))
	case code == 404:
		return fmt.Errorf("%w: %s", ErrNotFound, errBody(resp))
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, code)
	default:
		if badRequest != nil {
			return fmt.Errorf("%w: %s", badRequest, errBody(resp))
		}
		return fmt.Errorf("course service: unexpected status %d: %s", code, errBody(resp))
	}
}

// errBody extracts the error message from a {"error": "..."} response
// body, falling back to the raw body.
func errBody(resp *resty.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		return body.Error
	}
	return string(resp.Body())
}
