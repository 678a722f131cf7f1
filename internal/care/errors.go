package care

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure taxonomy. Callers match with
// errors.Is; wrapping sites attach the ids involved.
var (
	// ErrNotFound means a referenced alert, patient, or push is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means a state-machine rule was violated.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnknownMaterial means the material id is absent from the catalog.
	ErrUnknownMaterial = errors.New("unknown material")

	// ErrConflict means another operation holds the same patient's lock.
	// The caller decides whether to retry; the engine never retries itself.
	ErrConflict = errors.New("concurrency conflict")
)

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidTransitionf wraps ErrInvalidTransition with context.
func InvalidTransitionf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidTransition)...)
}

// UnknownMaterialf wraps ErrUnknownMaterial with context.
func UnknownMaterialf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnknownMaterial)...)
}

// Conflictf wraps ErrConflict with context.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}
