package store

import (
	"context"
	"fmt"
)

// Unavailable is the store used when no usable connection string was configured.
// Every operation fails fast with ErrUnavailable.
type Unavailable struct {
	Reason string
}

func (u Unavailable) err(op, collection string) error {
	return opError(op, collection, fmt.Errorf("%w: %s", ErrUnavailable, u.Reason))
}

func (u Unavailable) Name() string { return "" }

func (u Unavailable) CreateDocument(ctx context.Context, collection string, doc Document) (string, error) {
	return "", u.err("create", collection)
}

func (u Unavailable) GetDocuments(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	return nil, u.err("find", collection)
}

func (u Unavailable) CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error) {
	return 0, u.err("count", collection)
}

func (u Unavailable) ListCollections(ctx context.Context) ([]string, error) {
	return nil, u.err("list collections", "")
}

func (u Unavailable) Close(ctx context.Context) error { return nil }

// IsAvailable reports whether s is a configured backend.
func IsAvailable(s Store) bool {
	if s == nil {
		return false
	}
	switch s.(type) {
	case Unavailable, *Unavailable:
		return false
	}
	return true
}
