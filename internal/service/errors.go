package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports every offending field of a rejected payload at once,
// keyed by field name, so the client can re-render the form in one round trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// requireOwnership is the single authorization gate: every read of a specific
// todo and every mutation passes through it before touching state.
func requireOwnership(t dom.Todo, requesterID int64) error {
	if t.UserID != requesterID {
		return ErrForbidden
	}
	return nil
}
