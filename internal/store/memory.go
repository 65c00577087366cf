package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps collections in process, in insertion order. Selected with memory://.
type Memory struct {
	mu          sync.RWMutex
	name        string
	collections map[string][]Document
	nowFunc     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory(name string) *Memory {
	return &Memory{
		name:        name,
		collections: map[string][]Document{},
		nowFunc:     time.Now,
	}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) CreateDocument(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", opError("create", collection, err)
	}
	id := uuid.NewString()
	stored := stamp(doc, m.nowFunc())
	stored[IDField] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], stored)
	return id, nil
}

func (m *Memory) GetDocuments(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, opError("find", collection, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Document{}
	for _, d := range m.collections[collection] {
		if Matches(filter, d) {
			out = append(out, copyDocument(d))
		}
	}
	return out, nil
}

func (m *Memory) CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error) {
	docs, err := m.GetDocuments(ctx, collection, filter)
	if err != nil {
		return 0, opError("count", collection, unwrap(err))
	}
	return int64(len(docs)), nil
}

func (m *Memory) ListCollections(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }

func copyDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// unwrap strips one *Error layer so re-wrapping does not nest operation names.
func unwrap(err error) error {
	if e, ok := err.(*Error); ok {
		return e.Err
	}
	return err
}
