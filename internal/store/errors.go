package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets a nonexistent id
var ErrNotFound = errors.New("store: record not found")

// ConstraintKind classifies a constraint violation
type ConstraintKind string

// Constraint kinds
const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheckRange ConstraintKind = "check_range"
)

// ConstraintViolation is returned on any write that would break a
// uniqueness, foreign-key or value-range rule. The offending record is
// never partially applied.
type ConstraintViolation struct {
	Kind   ConstraintKind
	Entity string
	Field  string
	Detail string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("store: %s constraint violated on %s.%s: %s", e.Kind, e.Entity, e.Field, e.Detail)
}

// IsConstraint reports whether err is a ConstraintViolation of the given kind
func IsConstraint(err error, kind ConstraintKind) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv) && cv.Kind == kind
}

// CycleError is returned when a category parent assignment would create a
// cycle. The tree is left unchanged.
type CycleError struct {
	CategoryID uint
	ParentID   uint
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("store: assigning parent %d to category %d would create a cycle", e.ParentID, e.CategoryID)
}

// SchemaError is returned when an existing table's shape conflicts with the
// declared schema. Fatal at startup.
type SchemaError struct {
	Table  string
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("store: schema error: %s", e.Detail)
	}
	return fmt.Sprintf("store: schema error on table %q: %s", e.Table, e.Detail)
}

func uniqueViolation(entity, field, value string) error {
	return &ConstraintViolation{
		Kind:   ConstraintUnique,
		Entity: entity,
		Field:  field,
		Detail: fmt.Sprintf("value %q already exists", value),
	}
}

func fkViolation(entity, field string, id uint) error {
	return &ConstraintViolation{
		Kind:   ConstraintForeignKey,
		Entity: entity,
		Field:  field,
		Detail: fmt.Sprintf("referenced id %d does not exist", id),
	}
}

func rangeViolation(entity, field, detail string) error {
	return &ConstraintViolation{
		Kind:   ConstraintCheckRange,
		Entity: entity,
		Field:  field,
		Detail: detail,
	}
}
