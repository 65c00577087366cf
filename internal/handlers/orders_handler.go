package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-herbal-store/internal/orders"
	"github.com/imrishuroy/go-herbal-store/internal/schema"
	"github.com/imrishuroy/go-herbal-store/internal/validation"
)

// RegisterOrdersRoutes registers routes for order API.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		// Bind + validate request
		var req validation.OrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		lines := make([]orders.Line, 0, len(req.Items))
		for _, it := range req.Items {
			lines = append(lines, orders.Line{Price: *it.Price, Quantity: *it.Quantity})
		}
		if err := orders.VerifyTotal(lines, *req.Total); err != nil {
			if errors.Is(err, orders.ErrTotalMismatch) {
				_ = c.Error(err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "total_mismatch", "detail": "Total does not match sum of items"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "total_check_failed", "detail": err.Error()})
			return
		}

		orderID, err := cfg.Store.CreateDocument(ctx, schema.Orders, req.ToDocument())
		if err != nil {
			respondStoreError(c, cfg, err)
			return
		}
		recordCreated(ctx, cfg, schema.Orders)

		if cfg.Publisher != nil {
			event := orders.NewCreatedEvent(orderID, lines, *req.Total, time.Now())
			if err := publishOrderCreated(c, cfg, event); err != nil {
				cfg.logger().WithError(err).WithFields(log.Fields{"order_id": orderID}).Warn("order stored but event not published")
			}
		}

		c.JSON(http.StatusCreated, gin.H{"id": orderID})
	})
}

func publishOrderCreated(c *gin.Context, cfg HandlerConfig, event orders.CreatedEvent) error {
	body, err := event.Body()
	if err != nil {
		return err
	}
	return cfg.Publisher.SendOrderMessage(c.Request.Context(), body, event.Attributes(c.GetHeader("X-Request-Id")))
}
