// Package repository contains data access logic separated from
// HTTP handlers. This file defines error values that are reused
// across multiple repositories. These sentinel values let handlers
// distinguish failure scenarios: ErrForbidden indicates the current
// user may not perform an operation (e.g. creating an API key past
// the plan limit), while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// an ingredient still referenced by a pizza).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// their plan or ownership does not allow. Handlers translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because
// of conflicting state, such as deleting an ingredient that is
// still referenced by pizzas or reusing a unique name. Handlers
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
