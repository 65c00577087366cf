package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-herbal-store/internal/store"
)

// --- mock implementations ---

type mockPublisher struct {
	mu      sync.Mutex
	bodies  []string
	attrs   []map[string]string
	sendErr error
}

func (m *mockPublisher) SendOrderMessage(ctx context.Context, body string, attrs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, body)
	m.attrs = append(m.attrs, attrs)
	return m.sendErr
}

type mockMetrics struct {
	mu          sync.Mutex
	collections []string
	err         error
}

func (m *mockMetrics) RecordDocumentCreated(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections = append(m.collections, collection)
	return m.err
}

// brokenStore behaves like a working store but fails on listing collections.
type brokenStore struct {
	*store.Memory
	panicOnList bool
}

func (b brokenStore) ListCollections(ctx context.Context) ([]string, error) {
	if b.panicOnList {
		panic("driver exploded")
	}
	return nil, errors.New("not authorized on herbal to execute command listCollections")
}

// failingStore reaches a backend but every write and read errors.
type failingStore struct {
	*store.Memory
}

func (f failingStore) GetDocuments(ctx context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	return nil, errors.New("connection reset by peer")
}

func (f failingStore) CreateDocument(ctx context.Context, collection string, doc store.Document) (string, error) {
	return "", errors.New("connection reset by peer")
}

// --- helpers ---

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRouter(cfg HandlerConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	r := gin.New()
	r.Use(CORS())
	RegisterRoutes(r, cfg)
	return r
}

func memoryConfig() (HandlerConfig, *store.Memory) {
	mem := store.NewMemory("herbal")
	return HandlerConfig{Store: mem, DatabaseURLSet: true}, mem
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func fieldNames(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	body := decodeObject(t, w)
	fields, ok := body["fields"].([]interface{})
	require.True(t, ok, w.Body.String())
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.(map[string]interface{})["field"].(string))
	}
	return names
}
