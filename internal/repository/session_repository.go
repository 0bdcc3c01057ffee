package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/course-booking/internal/store"
)

const bucketSessions = "sessions"

// SessionRepo tracks issued session tokens so they can be revoked on
// signout.  Only the SHA-256 hex digest of the token is stored, never
// the raw string.
type SessionRepo struct {
	store store.Store
}

// NewSessionRepo returns a SessionRepo bound to the given store.
func NewSessionRepo(s store.Store) *SessionRepo { return &SessionRepo{store: s} }

type sessionRecord struct {
	ExpiresAt time.Time `json:"expires_at"`
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Add records a freshly issued token with its expiry.
func (r *SessionRepo) Add(ctx context.Context, raw string, expiresAt time.Time) error {
	rec, err := json.Marshal(sessionRecord{ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	return r.store.Set(ctx, bucketSessions, hashToken(raw), rec)
}

// Has reports whether the token is known and unexpired.
func (r *SessionRepo) Has(ctx context.Context, raw string, now time.Time) (bool, error) {
	v, err := r.store.Get(ctx, bucketSessions, hashToken(raw))
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return false, err
	}
	return rec.ExpiresAt.After(now), nil
}

// Revoke removes the token.  It reports whether the token was present.
func (r *SessionRepo) Revoke(ctx context.Context, raw string) (bool, error) {
	key := hashToken(raw)
	if _, err := r.store.Get(ctx, bucketSessions, key); errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, r.store.Delete(ctx, bucketSessions, key)
}
