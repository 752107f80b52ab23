// Package repository provides Postgres persistence for users and the
// owner-scoped transaction record stores.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound marks a record that is absent or not owned by the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate marks a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-index conflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// whereBuilder accumulates additive AND conditions with positional args.
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registers a query argument and returns its placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// add appends one condition. Conditions are joined with AND.
func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

// clause renders the accumulated WHERE clause, or an empty string when no
// condition was added.
func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// setBuilder accumulates UPDATE assignments with positional args.
type setBuilder struct {
	assigns []string
	args    []any
}

// arg registers a query argument and returns its placeholder.
func (s *setBuilder) arg(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

// set appends one column assignment bound to the given value.
func (s *setBuilder) set(col string, v any) {
	s.assigns = append(s.assigns, col+" = "+s.arg(v))
}

// raw appends one literal assignment without binding an argument.
func (s *setBuilder) raw(assign string) {
	s.assigns = append(s.assigns, assign)
}

// clause renders the accumulated SET clause.
func (s *setBuilder) clause() string {
	return "SET " + strings.Join(s.assigns, ", ")
}

// parseSort translates a caller-supplied sort spec into an ORDER BY target.
// A leading '-' selects descending order. Field names outside the allowlist
// fall back to the default spec.
func parseSort(spec string, allowed map[string]string, def string) string {
	if spec == "" {
		spec = def
	}

	dir := "ASC"
	if strings.HasPrefix(spec, "-") {
		dir = "DESC"
		spec = spec[1:]
	}

	col, ok := allowed[spec]
	if !ok {
		return parseSort(def, allowed, def)
	}

	return col + " " + dir
}
