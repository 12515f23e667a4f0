// Package docstore is the document-store contract the loyalty services read
// and write through, plus its Firestore and in-memory backends.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

type Op string

const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpLessOrEqual    Op = "<="
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, v any) Filter  { return Filter{Field: field, Op: OpEqual, Value: v} }
func Gte(field string, v any) Filter { return Filter{Field: field, Op: OpGreaterOrEqual, Value: v} }
func Lte(field string, v any) Filter { return Filter{Field: field, Op: OpLessOrEqual, Value: v} }

type Direction int

const (
	Asc Direction = iota
	Desc
)

// OrderBy sorts on Field, then on document id in the same direction.
// Documents missing Field are left out of the result.
type OrderBy struct {
	Field string
	Dir   Direction
}

type Query struct {
	Filters []Filter
	OrderBy OrderBy // zero value: document id ascending
	Limit   int     // <= 0: unbounded

	// StartAfter resumes strictly after this document in sort order.
	StartAfter *Document
}

// Document is a stored record: its id and raw field map.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the contract every backend implements.
//
// Watch and WatchDocument block until ctx is done (returning nil) or fn
// returns an error (returning it). The underlying listener is released on
// every exit path.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)
	Put(ctx context.Context, collection, id string, fields map[string]any) error
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	NewID(collection string) string

	Watch(ctx context.Context, collection string, q Query, fn func([]Document) error) error
	WatchDocument(ctx context.Context, collection, id string, fn func(*Document) error) error
}
