package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-herbal-store/internal/store"
)

func TestCreateAndListProducts(t *testing.T) {
	cfg, _ := memoryConfig()
	metrics := &mockMetrics{}
	cfg.Metrics = metrics
	r := newTestRouter(cfg)

	w := doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"name":        "Teh Jahe Merah",
		"price":       35000,
		"category":    "Teh",
		"ingredients": []string{"Jahe merah", "Serai"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, ok := decodeObject(t, w)["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	assert.Equal(t, []string{"herbalproduct"}, metrics.collections)

	w = doRequest(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)

	p := list[0]
	assert.Equal(t, id, p["id"])
	assert.NotContains(t, p, "_id")
	assert.Equal(t, "Teh Jahe Merah", p["name"])
	assert.Equal(t, float64(35000), p["price"])
	assert.Equal(t, true, p["in_stock"])
	assert.Nil(t, p["description"])
	assert.IsType(t, "", p["created_at"])
	assert.IsType(t, "", p["updated_at"])
}

func TestListProductsEmpty(t *testing.T) {
	cfg, _ := memoryConfig()
	r := newTestRouter(cfg)

	w := doRequest(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListProductsFilters(t *testing.T) {
	cfg, mem := memoryConfig()
	for _, doc := range []store.Document{
		{"name": "Teh Jahe Merah", "description": "Hangat", "category": "Teh", "ingredients": []interface{}{"Jahe merah"}},
		{"name": "Kapsul Kunyit", "description": "Antioksidan", "category": "Suplemen", "ingredients": []interface{}{"Kunyit", "Lada hitam"}},
		{"name": "Minyak Kayu Putih", "description": "Aroma segar", "category": "Minyak", "ingredients": []interface{}{"Cajuput"}},
	} {
		_, err := mem.CreateDocument(context.Background(), "herbalproduct", doc)
		require.NoError(t, err)
	}
	r := newTestRouter(cfg)

	names := func(path string) []string {
		w := doRequest(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out []string
		for _, p := range decodeList(t, w) {
			out = append(out, p["name"].(string))
		}
		return out
	}

	assert.Equal(t, []string{"Kapsul Kunyit"}, names("/api/products?category=Suplemen"))
	assert.Empty(t, names("/api/products?category=suplemen"))
	assert.Equal(t, []string{"Teh Jahe Merah"}, names("/api/products?q=JAHE"))
	assert.Equal(t, []string{"Minyak Kayu Putih"}, names("/api/products?q=segar"))
	assert.Equal(t, []string{"Kapsul Kunyit"}, names("/api/products?q=lada"))
	assert.Empty(t, names("/api/products?q=jahe&category=Minyak"))
	assert.Len(t, names("/api/products?q=&category="), 3)
	assert.Empty(t, names("/api/products?q=.*"))
}

func TestCreateProductValidation(t *testing.T) {
	cfg, mem := memoryConfig()
	r := newTestRouter(cfg)

	w := doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"description": "no name",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.ElementsMatch(t, []string{"name", "price", "category"}, fieldNames(t, w))

	w = doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "x", "price": -1, "category": "Teh",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"price"}, fieldNames(t, w))

	w = doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "x", "price": "mahal", "category": "Teh",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"price"}, fieldNames(t, w))

	w = doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{"price": "mahal"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.ElementsMatch(t, []string{"price", "name", "category"}, fieldNames(t, w))

	w = doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "x", "price": 1, "category": "Teh", "in_stock": nil,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"in_stock"}, fieldNames(t, w))

	w = doRequest(t, r, http.MethodPost, "/api/products", "{not json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	count, err := mem.CountDocuments(context.Background(), "herbalproduct", nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateProductAcceptsEmptyStringsAndRelativeImage(t *testing.T) {
	cfg, mem := memoryConfig()
	r := newTestRouter(cfg)

	w := doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "", "price": 0, "category": "Teh", "image": "/img/teh.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	docs, err := mem.GetDocuments(context.Background(), "herbalproduct", nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "", docs[0]["name"])
	assert.Equal(t, "/img/teh.png", docs[0]["image"])
}

func TestProductsWithoutDatabase(t *testing.T) {
	r := newTestRouter(HandlerConfig{Store: store.Unavailable{Reason: "DATABASE_URL not set"}})

	w := doRequest(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "database_unavailable", body["error"])
	assert.Equal(t, "Database not configured", body["detail"])

	w = doRequest(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "x", "price": 1, "category": "Teh",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProductsStoreFailure(t *testing.T) {
	r := newTestRouter(HandlerConfig{Store: failingStore{Memory: store.NewMemory("herbal")}})

	w := doRequest(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "database_error", body["error"])
	assert.Equal(t, "connection reset by peer", body["detail"])
}
