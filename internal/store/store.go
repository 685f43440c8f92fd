// Package store is the document store boundary: collections of schemaless
// documents with equality queries, atomic patches and live subscriptions.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Failure modes surfaced to callers. No operation retries.
var (
	ErrNotFound    = errors.New("document not found")
	ErrPermission  = errors.New("permission denied")
	ErrUnavailable = errors.New("document store unavailable")
	ErrInvalidPath = errors.New("invalid collection path")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Data is the raw, loosely typed body of a document
type Data = map[string]any

type Document struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Data       Data      `json:"data"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// Filter matches documents whose field equals Value
type Filter struct {
	Field string
	Value any
}

type Query struct {
	Where   []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Where starts a query with a single equality filter
func Where(field string, value any) Query {
	return Query{Where: []Filter{{Field: field, Value: value}}}
}

// And adds another equality filter
func (q Query) And(field string, value any) Query {
	where := make([]Filter, len(q.Where), len(q.Where)+1)
	copy(where, q.Where)
	q.Where = append(where, Filter{Field: field, Value: value})
	return q
}

// Order sets the ordering field
func (q Query) Order(field string, desc bool) Query {
	q.OrderBy = field
	q.Desc = desc
	return q
}

// Snapshot is one consistent read of a query or single document
type Snapshot struct {
	Collection string
	DocID      string
	Docs       []Document
	ReadTime   time.Time
	Err        error
}

// Mutator transforms the current body of a document into its next body
type Mutator func(current Data) (Data, error)

type DocumentStore interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, data Data) (string, error)
	Set(ctx context.Context, collection, id string, data Data) error
	Update(ctx context.Context, collection, id string, patch Patch) error
	Transform(ctx context.Context, collection, id string, fn Mutator) (*Document, error)
	Delete(ctx context.Context, collection, id string) error

	Subscribe(ctx context.Context, collection string, q Query) (<-chan Snapshot, error)
	SubscribeDoc(ctx context.Context, collection, id string) (<-chan Snapshot, error)

	Ping(ctx context.Context) error
	Close() error
}

// Path joins a parent collection, document id and child collection:
// Path("videos", "v1", "comments") == "videos/v1/comments".
func Path(segments ...string) string {
	return strings.Join(segments, "/")
}

// RootCollection returns the first segment of a collection path
func RootCollection(collection string) string {
	root, _, _ := strings.Cut(collection, "/")
	return root
}

func validatePath(collection string) error {
	segments := strings.Split(collection, "/")
	if len(segments)%2 == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, collection)
	}
	for _, segment := range segments {
		if segment == "" {
			return fmt.Errorf("%w: %q", ErrInvalidPath, collection)
		}
	}
	return nil
}
