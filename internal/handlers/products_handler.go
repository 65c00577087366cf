package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-herbal-store/internal/schema"
	"github.com/imrishuroy/go-herbal-store/internal/store"
	"github.com/imrishuroy/go-herbal-store/internal/validation"
)

// RegisterProductsRoutes registers routes for the product catalog.
func RegisterProductsRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/api/products", func(c *gin.Context) {
		filter := productFilter(c.Query("q"), c.Query("category"))

		docs, err := cfg.Store.GetDocuments(c.Request.Context(), schema.Products, filter)
		if err != nil {
			respondStoreError(c, cfg, err)
			return
		}
		c.JSON(http.StatusOK, store.SerializeAll(docs))
	})

	r.POST("/api/products", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.ProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 422
			return
		}

		id, err := cfg.Store.CreateDocument(ctx, schema.Products, req.ToDocument())
		if err != nil {
			respondStoreError(c, cfg, err)
			return
		}
		recordCreated(ctx, cfg, schema.Products)

		c.JSON(http.StatusCreated, gin.H{"id": id})
	})
}

// productFilter matches q against name, description or any ingredient, and
// category exactly. Absent parameters add no condition.
func productFilter(q, category string) store.Filter {
	var conds store.And
	if q != "" {
		conds = append(conds, store.Or{
			store.Contains{Field: "name", Substring: q},
			store.Contains{Field: "description", Substring: q},
			store.AnyContains{Field: "ingredients", Substring: q},
		})
	}
	if category != "" {
		conds = append(conds, store.Eq{Field: "category", Value: category})
	}
	if len(conds) == 0 {
		return nil
	}
	return conds
}
