package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/store"
)

const (
	bucketUsers      = "users"
	bucketUsersEmail = "users_email" // email -> user id index
)

// UserRepo provides access to user accounts.  Besides the primary
// record keyed by ID it maintains an email index so signin can resolve
// accounts without scanning the bucket.
type UserRepo struct {
	store store.Store
}

// NewUserRepo returns a UserRepo bound to the given store.
func NewUserRepo(s store.Store) *UserRepo { return &UserRepo{store: s} }

// Create persists a new account.  ErrEmailTaken is returned when the
// email is already registered.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	if _, err := r.store.Get(ctx, bucketUsersEmail, user.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, store.ErrKeyNotFound) {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, bucketUsers, user.ID.String(), raw); err != nil {
		return err
	}
	return r.store.Set(ctx, bucketUsersEmail, user.Email, []byte(user.ID.String()))
}

// GetByID returns the account or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	raw, err := r.store.Get(ctx, bucketUsers, id.String())
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail resolves the email index and returns the account, or
// ErrUserNotFound when the email is unknown.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	idRaw, err := r.store.Get(ctx, bucketUsersEmail, email)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(string(idRaw))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
