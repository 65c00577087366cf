package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-herbal-store/internal/schema"
	"github.com/imrishuroy/go-herbal-store/internal/store"
)

const diagnosticMessageLimit = 80

// Diagnostics is the body of GET /test.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      *string  `json:"database_url"`
	DatabaseName     *string  `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// RegisterSystemRoutes registers the liveness, schema and diagnostics routes.
func RegisterSystemRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Herbal Store Backend Running"})
	})

	r.GET("/schema", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"collections": schema.Collections(),
			"models":      schema.Models(),
		})
	})

	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, diagnose(c.Request.Context(), cfg))
	})
}

// diagnose never fails: each check that errors or panics only downgrades its own field.
func diagnose(ctx context.Context, cfg HandlerConfig) (d Diagnostics) {
	d = Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	defer func() {
		if r := recover(); r != nil {
			d.Database = "❌ Error: " + truncate(fmt.Sprint(r))
		}
	}()

	if !store.IsAvailable(cfg.Store) {
		return d
	}
	d.Database = "✅ Available"

	urlStatus := "❌ Not Set"
	if cfg.DatabaseURLSet {
		urlStatus = "✅ Set"
	}
	d.DatabaseURL = &urlStatus

	if name, err := guarded(func() (string, error) { return cfg.Store.Name(), nil }); err == nil && name != "" {
		d.DatabaseName = &name
	}

	names, err := guarded(func() ([]string, error) { return cfg.Store.ListCollections(ctx) })
	if err != nil {
		d.Database = "⚠️ Connected but Error: " + truncate(err.Error())
		return d
	}
	if names != nil {
		d.Collections = names
	}
	d.Database = "✅ Connected & Working"
	d.ConnectionStatus = "Connected"
	return d
}

// guarded runs fn and turns a panic into an error.
func guarded[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn()
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= diagnosticMessageLimit {
		return s
	}
	return string(r[:diagnosticMessageLimit])
}
