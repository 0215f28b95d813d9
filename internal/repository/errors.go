// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto HTTP status codes without inspecting SQL errors.
package repository

import "errors"

// ErrEntryNotFound indicates that no parking entry exists for the
// requested ID. Handlers translate this into an HTTP 404 response.
var ErrEntryNotFound = errors.New("parking entry not found")

// ErrShiftNotFound indicates that no shift session exists for the
// requested ID. Statistics sync reports this instead of creating a
// shift implicitly. Handlers translate it into an HTTP 404 response.
var ErrShiftNotFound = errors.New("shift session not found")

// ErrRateNotFound indicates that no daily rate row exists for the
// requested vehicle type.
var ErrRateNotFound = errors.New("vehicle rate not found")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as exiting an entry that has already
// exited or opening a second active shift. Handlers translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
