// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Outcome is the result of a mutation that reports success rather than
// returning the changed entity.
type Outcome int

const (
	// OK means the change was applied.
	OK Outcome = iota
	// NotFound means no entity has the given id.
	NotFound
	// Failed means the store rejected the change; the cause is logged.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// outcomeOf classifies err and logs it when the store failed.
func outcomeOf(log *slog.Logger, op string, id uuid.UUID, err error) Outcome {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ErrNotFound):
		return NotFound
	default:
		log.Error(op+" failed", "id", id, "error", err)
		return Failed
	}
}
