package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-herbal-store/internal/store"
)

// OrderEventSender publishes order events; implemented by aws.Publisher.
type OrderEventSender interface {
	SendOrderMessage(ctx context.Context, messageBody string, attributes map[string]string) error
}

// MetricsRecorder counts created documents; implemented by aws.Metrics.
type MetricsRecorder interface {
	RecordDocumentCreated(ctx context.Context, collection string) error
}

// HandlerConfig groups dependencies for all handlers.
type HandlerConfig struct {
	Store          store.Store
	DatabaseURLSet bool
	// Publisher and Metrics are optional.
	Publisher OrderEventSender
	Metrics   MetricsRecorder
	Logger    log.FieldLogger
}

func (cfg HandlerConfig) logger() log.FieldLogger {
	if cfg.Logger == nil {
		return log.StandardLogger()
	}
	return cfg.Logger
}

// RegisterRoutes registers every route of the API.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	RegisterSystemRoutes(r, cfg)
	RegisterProductsRoutes(r, cfg)
	RegisterArticlesRoutes(r, cfg)
	RegisterOrdersRoutes(r, cfg)
}

// respondStoreError writes a 500 for a failed store operation.
func respondStoreError(c *gin.Context, cfg HandlerConfig, err error) {
	_ = c.Error(err)
	cfg.logger().WithError(err).Error("store operation failed")
	code := "database_error"
	detail := err.Error()
	if !store.IsAvailable(cfg.Store) {
		code = "database_unavailable"
		detail = "Database not configured"
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": code, "detail": detail})
}

// recordCreated emits the created-document metric; failures are only logged.
func recordCreated(ctx context.Context, cfg HandlerConfig, collection string) {
	if cfg.Metrics == nil {
		return
	}
	if err := cfg.Metrics.RecordDocumentCreated(ctx, collection); err != nil {
		cfg.logger().WithError(err).WithField("collection", collection).Warn("failed to record metric")
	}
}

// CORS allows any origin, method and header, and answers preflight requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			methods := c.GetHeader("Access-Control-Request-Method")
			if methods == "" {
				methods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
			}
			h.Set("Access-Control-Allow-Methods", methods)
			if reqHeaders := c.GetHeader("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			}
			h.Set("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
