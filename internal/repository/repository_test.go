package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/store"
)

func TestUserRepoEmailUniqueness(t *testing.T) {
	repo := NewUserRepo(store.NewMemory())
	ctx := context.Background()

	alice := &model.User{ID: uuid.New(), Email: "alice@example.com", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, alice))

	dup := &model.User{ID: uuid.New(), Email: "alice@example.com", Role: model.RoleUser}
	require.ErrorIs(t, repo.Create(ctx, dup), ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)

	got, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCourseRepoListPagination(t *testing.T) {
	repo := NewCourseRepo(store.NewMemory())
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mine := uuid.New()
	other := uuid.New()
	for i := 0; i < 5; i++ {
		owner := mine
		if i%2 == 1 {
			owner = other
		}
		c := &model.Course{
			ID:           uuid.New(),
			Title:        "course",
			Seats:        10,
			InstructorID: owner,
			Version:      1,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, c))
	}

	all, err := repo.List(ctx, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].CreatedAt.Before(all[i-1].CreatedAt))
	}

	paged, err := repo.List(ctx, nil, 1, 2)
	require.NoError(t, err)
	require.Len(t, paged, 2)
	require.Equal(t, all[1].ID, paged[0].ID)
	require.Equal(t, all[2].ID, paged[1].ID)

	owned, err := repo.List(ctx, &mine, 0, 0)
	require.NoError(t, err)
	require.Len(t, owned, 3)
	for _, c := range owned {
		require.Equal(t, mine, c.InstructorID)
	}

	empty, err := repo.List(ctx, nil, 10, 0)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestCourseRepoUpdate(t *testing.T) {
	repo := NewCourseRepo(store.NewMemory())
	ctx := context.Background()

	c := &model.Course{ID: uuid.New(), Title: "before", Seats: 3, Version: 1}
	require.NoError(t, repo.Create(ctx, c))

	c.Title = "after"
	c.Version = 2
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "after", got.Title)
	require.Equal(t, 2, got.Version)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestOrderRepoFindByUserAndCourse(t *testing.T) {
	repo := NewOrderRepo(store.NewMemory())
	ctx := context.Background()

	user := uuid.New()
	course := uuid.New()

	found, err := repo.FindByUserAndCourse(ctx, user, course)
	require.NoError(t, err)
	require.Nil(t, found)

	ord := &model.Order{ID: uuid.New(), UserID: user, CourseID: course, Status: model.OrderAwaitingPayment}
	require.NoError(t, repo.Create(ctx, ord))
	// a different pairing must not match
	require.NoError(t, repo.Create(ctx, &model.Order{ID: uuid.New(), UserID: user, CourseID: uuid.New()}))

	found, err = repo.FindByUserAndCourse(ctx, user, course)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, ord.ID, found.ID)

	require.NoError(t, repo.Delete(ctx, ord.ID))
	found, err = repo.FindByUserAndCourse(ctx, user, course)
	require.NoError(t, err)
	require.Nil(t, found)

	_, err = repo.GetByID(ctx, ord.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSessionRepoLifecycle(t *testing.T) {
	repo := NewSessionRepo(store.NewMemory())
	ctx := context.Background()
	now := time.Now().UTC()

	const token = "header.payload.signature"
	require.NoError(t, repo.Add(ctx, token, now.Add(time.Hour)))

	ok, err := repo.Has(ctx, token, now)
	require.NoError(t, err)
	require.True(t, ok)

	// expired tokens stop counting without being removed
	ok, err = repo.Has(ctx, token, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.False(t, ok)

	revoked, err := repo.Revoke(ctx, token)
	require.NoError(t, err)
	require.True(t, revoked)

	ok, err = repo.Has(ctx, token, now)
	require.NoError(t, err)
	require.False(t, ok)

	revoked, err = repo.Revoke(ctx, token)
	require.NoError(t, err)
	require.False(t, revoked)
}
