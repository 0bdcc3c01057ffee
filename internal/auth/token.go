// Package auth issues and verifies the opaque x-session credential.
// A session is an HS256-signed JWT whose raw string is also recorded
// in the session repository, so signout can revoke tokens that are
// otherwise still cryptographically valid.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a session token fails parsing,
// signature verification, or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// Session is a freshly issued token plus its expiry.
type Session struct {
	Token string    // the serialized JWT, handed out as x-session
	Exp   time.Time // UTC expiration time
}

// Claims are the verified contents of a session token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// NewSession builds and signs a session token for a user.  The JWT
// carries the subject (user ID), email, role, expiration and issued-at
// claims.
func NewSession(secret string, userID uuid.UUID, email, role string, ttl time.Duration) (Session, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, Exp: exp}, nil
}

// ParseSession verifies the signature and expiry of a session token
// and returns its claims.  Only HMAC-signed tokens are accepted.
func ParseSession(secret, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)
	return &Claims{UserID: id, Email: email, Role: role}, nil
}
