package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/course-booking/internal/model"
)

func TestAllocateAndRelease(t *testing.T) {
	l := New()
	course := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	now := time.Now().UTC()

	res := l.Allocate(course, alice, now, now.Add(time.Minute))
	require.Equal(t, model.ReservationAllocated, res.Status)
	require.Equal(t, 1, l.Reserved(course))

	l.Allocate(course, bob, now, now.Add(time.Minute))
	require.Equal(t, 2, l.Reserved(course))

	require.True(t, l.Release(course, alice))
	require.Equal(t, 1, l.Reserved(course))
	require.Nil(t, l.Get(course, alice))

	// releasing again is a no-op
	require.False(t, l.Release(course, alice))
	require.Equal(t, 1, l.Reserved(course))
}

func TestReleaseUnknownPair(t *testing.T) {
	l := New()
	require.False(t, l.Release(uuid.New(), uuid.New()))
}

func TestConfirmLeavesMarker(t *testing.T) {
	l := New()
	course := uuid.New()
	user := uuid.New()
	now := time.Now().UTC()

	res := l.Allocate(course, user, now, now.Add(time.Minute))
	require.True(t, l.Release(course, user))
	l.Confirm(res)

	got := l.Get(course, user)
	require.NotNil(t, got)
	require.Equal(t, model.ReservationConfirmed, got.Status)
	require.True(t, got.Active())

	// confirmed entries hold no counted seat and cannot be released
	require.Equal(t, 0, l.Reserved(course))
	require.False(t, l.Release(course, user))
	require.NotNil(t, l.Get(course, user))
}
