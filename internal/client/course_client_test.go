package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/reservation"
)

func newTestClient(url string, attempts int) *CourseClient {
	return New(url, "srv-secret", attempts, time.Millisecond)
}

func TestProfilePropagatesCredentials(t *testing.T) {
	id := uuid.New()
	var gotSrv, gotSession, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSrv = r.Header.Get(HeaderSrvSession)
		gotSession = r.Header.Get(HeaderSession)
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": model.User{ID: id, Email: "alice@example.com", Role: model.RoleUser},
		})
	}))
	defer srv.Close()

	user, err := newTestClient(srv.URL, 3).Profile(context.Background(), "user-token")
	require.NoError(t, err)
	require.Equal(t, id, user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "srv-secret", gotSrv)
	require.Equal(t, "user-token", gotSession)
	require.Equal(t, "/users/profile", gotPath)
}

func TestRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": "ok"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, 3).ReserveSeat(context.Background(), "tok", uuid.New())
	require.NoError(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, 3).ConfirmBooking(context.Background(), "tok", uuid.New())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestNoRetryOnBadRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "seats unavailable"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, 3).ReserveSeat(context.Background(), "tok", uuid.New())
	require.ErrorIs(t, err, reservation.ErrSeatsUnavailable)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestStatusMapping(t *testing.T) {
	status := http.StatusUnauthorized
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)

	_, err := c.Profile(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUnauthorized)

	status = http.StatusNotFound
	_, err = c.GetCourse(context.Background(), "tok", uuid.New())
	require.ErrorIs(t, err, ErrNotFound)

	status = http.StatusBadRequest
	err = c.ConfirmBooking(context.Background(), "tok", uuid.New())
	require.ErrorIs(t, err, reservation.ErrInvalidReservation)
}

func TestNetworkErrorSurfacesUnavailable(t *testing.T) {
	// nothing listens on this address
	c := newTestClient("http://127.0.0.1:1", 2)
	err := c.ReleaseSeat(context.Background(), "tok", uuid.New())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}
