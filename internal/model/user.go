package model

import (
	"time"

	"github.com/google/uuid"
)

// Role names for users of the Course service.  Instructors own and
// mutate courses; regular users reserve and purchase seats.
const (
	RoleUser       = "user"
	RoleInstructor = "instructor"
)

// User is an account on the Course service.  PasswordHash holds a
// bcrypt digest and is never serialized into responses.
//
// Fields:
//  ID           – primary identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hash of the password.
//  Role         – "user" or "instructor".
//  FirstName    – given name.
//  LastName     – family name.
//  CreatedAt    – creation timestamp (UTC).
//  UpdatedAt    – last update timestamp (UTC).
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
