// Package store is the document data access layer. A Store persists schemaless
// documents into named collections and reads them back through Filter predicates
// that every backend evaluates the same way.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// IDField is the store-internal identifier of a document.
const IDField = "_id"

// Timestamp fields stamped on every created document.
const (
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"
)

// Document is a schemaless record.
type Document map[string]interface{}

// Store is implemented by every backend.
type Store interface {
	// Name is the logical database name (or table prefix).
	Name() string
	// CreateDocument inserts doc into collection and returns the new id.
	CreateDocument(ctx context.Context, collection string, doc Document) (string, error)
	// GetDocuments returns the documents matching filter; a nil filter matches all.
	GetDocuments(ctx context.Context, collection string, filter Filter) ([]Document, error)
	CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error)
	ListCollections(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

var (
	// ErrUnavailable is returned by every operation of a store that is not configured.
	ErrUnavailable = errors.New("store unavailable")
	// ErrInvalidCollection is returned for empty or malformed collection names.
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Error describes a failed store operation.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func opError(op, collection string, err error) error {
	return &Error{Op: op, Collection: collection, Err: err}
}

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,120}$`)

// ValidateCollection checks a collection name against the rules shared by all backends.
func ValidateCollection(name string) error {
	if !collectionNamePattern.MatchString(name) || strings.HasPrefix(name, "system.") {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// stamp copies doc and sets the creation timestamps.
func stamp(doc Document, now time.Time) Document {
	out := make(Document, len(doc)+2)
	for k, v := range doc {
		out[k] = v
	}
	now = now.UTC()
	out[CreatedAtField] = now
	out[UpdatedAtField] = now
	return out
}
