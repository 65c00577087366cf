package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-herbal-store/internal/schema"
	"github.com/imrishuroy/go-herbal-store/internal/store"
	"github.com/imrishuroy/go-herbal-store/internal/validation"
)

// RegisterArticlesRoutes registers routes for educational articles.
func RegisterArticlesRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/api/articles", func(c *gin.Context) {
		var filter store.Filter
		if tag := c.Query("tag"); tag != "" {
			filter = store.In{Field: "tags", Values: []interface{}{tag}}
		}

		docs, err := cfg.Store.GetDocuments(c.Request.Context(), schema.Articles, filter)
		if err != nil {
			respondStoreError(c, cfg, err)
			return
		}
		c.JSON(http.StatusOK, store.SerializeAll(docs))
	})

	r.POST("/api/articles", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.ArticleRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		id, err := cfg.Store.CreateDocument(ctx, schema.Articles, req.ToDocument())
		if err != nil {
			respondStoreError(c, cfg, err)
			return
		}
		recordCreated(ctx, cfg, schema.Articles)

		c.JSON(http.StatusCreated, gin.H{"id": id})
	})
}
