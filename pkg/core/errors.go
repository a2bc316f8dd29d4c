package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors.
var (
	// ErrNotFound signals that no review (or no live review, depending on
	// the operation) matches the requested id.
	ErrNotFound = errors.New("review not found")
)

// ValidationError reports field constraint violations. It is
// user-correctable and carries per-field detail for the API boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation error: " + strings.Join(parts, "; ")
}

// InvalidArgumentError reports malformed pagination or sort parameters.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

func invalidArgumentf(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// StoreError wraps a failure of the underlying store. The boundary maps it
// to a generic server error; no retries happen inside the core.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	// Domain errors pass through untouched; only infrastructure failures
	// get wrapped.
	var ve *ValidationError
	if errors.Is(err, ErrNotFound) || errors.As(err, &ve) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
