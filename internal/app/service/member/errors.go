package member

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation means the input breaks a member field constraint.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means the email or phone already belongs to another member.
	ErrConflict = errors.New("member conflict")
	ErrNotFound = errors.New("member not found")
	// ErrInvalidState means the member's current status forbids the operation.
	ErrInvalidState = errors.New("invalid member state")
	// ErrPersistence means the durable store failed; nothing was changed.
	ErrPersistence = errors.New("persistence failure")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
