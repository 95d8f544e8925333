// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller mistakes: an empty point sequence, bad
// coordinates, or a threshold that is not a positive finite number.
// Wrapped errors carry the detail; match with IsInvalidInput.
var ErrInvalidInput = errors.New("invalid input")

// InvariantError reports a broken internal invariant of the clustering
// pipeline: a cluster id with no members, a leaf visited twice, a node
// index outside the arena. It always means a bug in this package, never
// bad input, so callers should abort rather than retry.
type InvariantError struct {
	Step   string // pipeline stage that detected the problem
	Detail string // the indices and values involved
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Step, e.Detail)
}

func invariantf(step, format string, args ...any) error {
	return &InvariantError{Step: step, Detail: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err stems from rejected caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvariantViolation reports whether err is an internal invariant
// violation.
func IsInvariantViolation(err error) bool {
	var invariant *InvariantError

	return errors.As(err, &invariant)
}
