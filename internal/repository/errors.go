// Package repository implements the data access layer on database/sql.
// Sentinel errors below let handlers distinguish failure scenarios
// without parsing driver messages; a missing row is reported as
// sql.ErrNoRows throughout.
package repository

import "errors"

// ErrEmailExists is returned when a user insert hits the unique email
// index. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an operation cannot proceed due to
// conflicting state, such as deleting a category that still has posts.
// Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, e.g. deleting another user's comment.
// Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")
