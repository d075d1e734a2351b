// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/store"
	"inkpress/internal/validate"
)

var (
	// ErrNotFound is returned when the requested entity does not exist or
	// is not visible through the called operation.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would break a uniqueness rule.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned for a comment status change the
	// moderation workflow does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a request that cannot be applied as sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvariantError is the panic value raised when a row written moments ago
// cannot be read back.
type InvariantError struct {
	Entity string
	ID     uuid.UUID
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: %s %s missing after write", e.Entity, e.ID)
}

// checkRequest validates a request struct, returning the first failed
// field as a ValidationError.
func checkRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validate.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field, Message: verrs[0].Message}
	}
	return fmt.Errorf("validate request: %w", err)
}

// writeErr translates store constraint errors into service errors.
func writeErr(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	case errors.Is(err, store.ErrForeignKey):
		return &ValidationError{Message: "referenced record does not exist"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
