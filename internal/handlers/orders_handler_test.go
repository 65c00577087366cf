package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-herbal-store/internal/orders"
)

func orderBody(total float64) map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "p1", "name": "Teh Jahe Merah", "price": 35000, "quantity": 2},
		},
		"customer": map[string]interface{}{
			"name":    "Sari",
			"email":   "sari@example.com",
			"address": "Jl. Melati 1, Bandung",
		},
		"total": total,
	}
}

func TestCreateOrder(t *testing.T) {
	cfg, mem := memoryConfig()
	pub := &mockPublisher{}
	metrics := &mockMetrics{}
	cfg.Publisher = pub
	cfg.Metrics = metrics
	r := newTestRouter(cfg)

	raw, err := json.Marshal(orderBody(70000))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeObject(t, w)["id"].(string)

	docs, err := mem.GetDocuments(context.Background(), "order", nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 70000.0, docs[0]["total"])
	assert.Nil(t, docs[0]["note"])

	assert.Equal(t, []string{"order"}, metrics.collections)
	require.Len(t, pub.bodies, 1)
	var event orders.CreatedEvent
	require.NoError(t, json.Unmarshal([]byte(pub.bodies[0]), &event))
	assert.Equal(t, orders.EventTypeCreated, event.Type)
	assert.Equal(t, id, event.OrderID)
	assert.Equal(t, 1, event.ItemCount)
	assert.Equal(t, []orders.Line{{Price: 35000, Quantity: 2}}, event.Items)
	assert.Equal(t, "req-42", pub.attrs[0]["correlation_id"])
}

func TestCreateOrderTotalMismatch(t *testing.T) {
	cfg, mem := memoryConfig()
	pub := &mockPublisher{}
	cfg.Publisher = pub
	r := newTestRouter(cfg)

	w := doRequest(t, r, http.MethodPost, "/api/orders", orderBody(70001))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "total_mismatch", body["error"])
	assert.Equal(t, "Total does not match sum of items", body["detail"])

	count, err := mem.CountDocuments(context.Background(), "order", nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, pub.bodies)
}

func TestCreateOrderFractionalTotal(t *testing.T) {
	cfg, _ := memoryConfig()
	r := newTestRouter(cfg)

	body := orderBody(0.3)
	body["items"] = []map[string]interface{}{
		{"product_id": "a", "name": "A", "price": 0.1, "quantity": 1},
		{"product_id": "b", "name": "B", "price": 0.2, "quantity": 1},
	}
	w := doRequest(t, r, http.MethodPost, "/api/orders", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateOrderValidation(t *testing.T) {
	cfg, _ := memoryConfig()
	r := newTestRouter(cfg)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		fields []string
	}{
		{
			name:   "missing customer and total",
			mutate: func(b map[string]interface{}) { delete(b, "customer"); delete(b, "total") },
			fields: []string{"customer", "total"},
		},
		{
			name:   "empty items",
			mutate: func(b map[string]interface{}) { b["items"] = []interface{}{} },
			fields: []string{"items"},
		},
		{
			name: "zero quantity and negative price",
			mutate: func(b map[string]interface{}) {
				b["items"] = []map[string]interface{}{{"product_id": "p", "name": "n", "price": -5, "quantity": 0}}
			},
			fields: []string{"items[0].price", "items[0].quantity"},
		},
		{
			name: "wrong types reported with missing fields",
			mutate: func(b map[string]interface{}) {
				b["items"] = []map[string]interface{}{{"product_id": "p", "name": "n", "price": "gratis", "quantity": 1}}
				delete(b, "total")
			},
			fields: []string{"items[0].price", "total"},
		},
		{
			name: "bad email",
			mutate: func(b map[string]interface{}) {
				b["customer"].(map[string]interface{})["email"] = "not-an-email"
			},
			fields: []string{"customer.email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := orderBody(70000)
			tt.mutate(body)
			w := doRequest(t, r, http.MethodPost, "/api/orders", body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.ElementsMatch(t, tt.fields, fieldNames(t, w))
		})
	}
}

func TestCreateOrderAcceptsEmptyProductID(t *testing.T) {
	cfg, _ := memoryConfig()
	r := newTestRouter(cfg)

	body := orderBody(70000)
	body["items"].([]map[string]interface{})[0]["product_id"] = ""
	w := doRequest(t, r, http.MethodPost, "/api/orders", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateOrderPublishFailureStillCreated(t *testing.T) {
	cfg, _ := memoryConfig()
	cfg.Publisher = &mockPublisher{sendErr: errors.New("queue unavailable")}
	cfg.Metrics = &mockMetrics{err: errors.New("throttled")}
	r := newTestRouter(cfg)

	w := doRequest(t, r, http.MethodPost, "/api/orders", orderBody(70000))
	assert.Equal(t, http.StatusCreated, w.Code)
}
