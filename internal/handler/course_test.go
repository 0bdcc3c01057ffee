package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/course-booking/internal/middleware"
)

type courseBody struct {
	Data struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Price   int64  `json:"price"`
		Seats   int    `json:"seats"`
		Version int    `json:"version"`
	} `json:"data"`
}

func userHdr(session string) map[string]string {
	return map[string]string{middleware.HeaderSession: session}
}

func bookingHdr(session string) map[string]string {
	return map[string]string{
		middleware.HeaderSession:    session,
		middleware.HeaderSrvSession: "srv-secret",
	}
}

func TestCourseLifecycleAndBookingFlow(t *testing.T) {
	e := newCourseServer(t)

	signup(t, e, "teacher@example.com", "instructor")
	signup(t, e, "student@example.com", "user")
	instructor := signin(t, e, "teacher@example.com")
	student := signin(t, e, "student@example.com")

	// students cannot create courses
	rec := doJSON(e, http.MethodPost, "/courses", map[string]any{
		"title": "Go from scratch", "price": 4900, "seats": 2,
	}, userHdr(student))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/courses", map[string]any{
		"title": "Go from scratch", "content": "slices and maps", "price": 4900, "seats": 2,
	}, userHdr(instructor))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created courseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, 1, created.Data.Version)
	courseID := created.Data.ID
	path := "/courses/" + courseID

	// anonymous browse
	rec = doJSON(e, http.MethodGet, "/courses", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/courses/00000000-0000-0000-0000-000000000000", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// price update bumps the version; students are forbidden
	rec = doJSON(e, http.MethodPatch, path+"/price", map[string]any{"price": 5900}, userHdr(student))
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(e, http.MethodPatch, path+"/price", map[string]any{"price": 5900}, userHdr(instructor))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated courseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, int64(5900), updated.Data.Price)
	require.Equal(t, 2, updated.Data.Version)

	// reservation endpoints require the service credential
	rec = doJSON(e, http.MethodPatch, path+"/reserveSeat", nil, userHdr(student))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// and the user role
	rec = doJSON(e, http.MethodPatch, path+"/reserveSeat", nil, bookingHdr(instructor))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPatch, path+"/reserveSeat", nil, bookingHdr(student))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// confirming deducts the seat permanently and bumps the version
	rec = doJSON(e, http.MethodPatch, path+"/confirm", nil, bookingHdr(student))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after courseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	require.Equal(t, 1, after.Data.Seats)
	require.Equal(t, 3, after.Data.Version)

	// a second confirm has no hold to convert
	rec = doJSON(e, http.MethodPatch, path+"/confirm", nil, bookingHdr(student))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// releasing with nothing held still succeeds
	rec = doJSON(e, http.MethodPatch, path+"/releaseSeat", nil, bookingHdr(student))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestConfirmWithoutReservation(t *testing.T) {
	e := newCourseServer(t)

	signup(t, e, "teacher@example.com", "instructor")
	signup(t, e, "student@example.com", "user")
	instructor := signin(t, e, "teacher@example.com")
	student := signin(t, e, "student@example.com")

	rec := doJSON(e, http.MethodPost, "/courses", map[string]any{
		"title": "Go from scratch", "price": 100, "seats": 1,
	}, userHdr(instructor))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created courseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodPatch, "/courses/"+created.Data.ID+"/confirm", nil, bookingHdr(student))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveSeatExhaustion(t *testing.T) {
	e := newCourseServer(t)

	signup(t, e, "teacher@example.com", "instructor")
	signup(t, e, "a@example.com", "user")
	signup(t, e, "b@example.com", "user")
	instructor := signin(t, e, "teacher@example.com")
	a := signin(t, e, "a@example.com")
	b := signin(t, e, "b@example.com")

	rec := doJSON(e, http.MethodPost, "/courses", map[string]any{
		"title": "Go from scratch", "price": 100, "seats": 1,
	}, userHdr(instructor))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created courseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/courses/" + created.Data.ID + "/reserveSeat"

	rec = doJSON(e, http.MethodPatch, path, nil, bookingHdr(a))
	require.Equal(t, http.StatusOK, rec.Code)

	// re-reserving is idempotent for the same user
	rec = doJSON(e, http.MethodPatch, path, nil, bookingHdr(a))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPatch, path, nil, bookingHdr(b))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
