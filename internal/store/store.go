// Package store is the item store boundary: a generic find/create/update
// capability over named collections, with postgres, remote and in-memory drivers.
package store

import (
	"context"
	"strings"
)

type Op int

const (
	OpEq Op = iota
	OpNull
)

// Condition is a single field filter. Conditions in a Query are ANDed.
type Condition struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

func IsNull(field string) Condition {
	return Condition{Field: field, Op: OpNull}
}

// EqOrNull matches field = *v, or field IS NULL when v is nil.
func EqOrNull(field string, v *uint) Condition {
	if v == nil {
		return IsNull(field)
	}
	return Eq(field, *v)
}

// Query describes a find. Sort entries are field names, prefixed with "-" for
// descending. Expand lists relation paths (struct field names, dot separated)
// to load alongside each item.
type Query struct {
	Filters []Condition
	Sort    []string
	Limit   int
	Fields  []string
	Expand  []string
}

// Fields is a partial update keyed by column name.
type Fields map[string]any

type ItemStore interface {
	// Find decodes matching items into dest, which must point to a slice.
	Find(ctx context.Context, collection string, q Query, dest any) error
	// Create persists item and fills in its id.
	Create(ctx context.Context, collection string, item any) error
	Update(ctx context.Context, collection string, id uint, fields Fields) error
}

func parseSort(s string) (field string, desc bool) {
	if strings.HasPrefix(s, "-") {
		return s[1:], true
	}
	return s, false
}
