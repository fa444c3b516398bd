// ABOUTME: Shared errors and validation helpers for the flat feature stores
// ABOUTME: Notes, snippets, and statuses all follow the same CRUD-over-storage shape

package features

import (
	"errors"
	"fmt"
	"strings"
)

// Length caps applied to user-supplied fields.
const (
	MaxTitleLen = 120
	MaxBodyLen  = 20000
)

// ErrNotReady is returned while a feature store has not finished loading.
var ErrNotReady = errors.New("feature store not loaded")

// ErrLastStatus is returned when a deletion would leave the status
// collection empty; at least one status must always exist.
var ErrLastStatus = errors.New("cannot delete the last status")

// ValidationError reports a rejected user-supplied field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validTitle(field, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if len(title) > MaxTitleLen {
		return "", &ValidationError{Field: field, Reason: "too long"}
	}
	return title, nil
}

func validBody(field, body string) error {
	if len(body) > MaxBodyLen {
		return &ValidationError{Field: field, Reason: "too long"}
	}
	return nil
}
