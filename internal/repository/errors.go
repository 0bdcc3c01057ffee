// Package repository defines the record repositories for both services
// plus the sentinel error values shared across them.  These sentinels
// let handlers and the orchestrator distinguish failure scenarios with
// errors.Is instead of string matching.
package repository

import "errors"

// ErrCourseNotFound is returned when a course lookup misses.  Handlers
// translate this into an HTTP 404 response.
var ErrCourseNotFound = errors.New("course not found")

// ErrUserNotFound is returned when a user lookup misses.
var ErrUserNotFound = errors.New("user not found")

// ErrOrderNotFound is returned when an order lookup misses.
var ErrOrderNotFound = errors.New("order not found")

// ErrEmailTaken is returned on signup when the email is already
// registered.  Handlers translate this into an HTTP 400 response.
var ErrEmailTaken = errors.New("user already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as updating another instructor's
// course.  Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
