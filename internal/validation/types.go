package validation

import "github.com/imrishuroy/go-herbal-store/internal/store"

// Request types carry three tag sets: validate (go-playground rules), jsonschema
// (the published structural schema) and jsonschema_description. Fields marked
// jsonschema:"nullable" accept an explicit null; any other field rejects it.

// ProductRequest is the payload for POST /api/products.
type ProductRequest struct {
	Name        *string  `json:"name" validate:"required" jsonschema:"required" jsonschema_description:"Product name"`
	Description *string  `json:"description" jsonschema:"nullable" jsonschema_description:"Detailed description and benefits"`
	Price       *float64 `json:"price" validate:"required,gte=0" jsonschema:"required,minimum=0" jsonschema_description:"Price in IDR"`
	Category    *string  `json:"category" validate:"required" jsonschema:"required" jsonschema_description:"Category, e.g., Teh, Suplemen, Minyak"`
	InStock     *bool    `json:"in_stock" jsonschema:"default=true" jsonschema_description:"Stock availability"`
	Image       *string  `json:"image" jsonschema:"nullable" jsonschema_description:"Image URL"`
	Ingredients []string `json:"ingredients" jsonschema:"nullable" jsonschema_description:"Key herbal ingredients"`
	Usage       *string  `json:"usage" jsonschema:"nullable" jsonschema_description:"How to use / dosage"`
}

// ArticleRequest is the payload for POST /api/articles.
type ArticleRequest struct {
	Title      *string  `json:"title" validate:"required" jsonschema:"required"`
	Summary    *string  `json:"summary" jsonschema:"nullable"`
	Content    *string  `json:"content" validate:"required" jsonschema:"required"`
	CoverImage *string  `json:"cover_image" jsonschema:"nullable"`
	Tags       []string `json:"tags" jsonschema:"nullable"`
}

// OrderItem is a single order line; product_id is not checked against the catalog.
type OrderItem struct {
	ProductID *string  `json:"product_id" validate:"required" jsonschema:"required"`
	Name      *string  `json:"name" validate:"required" jsonschema:"required"`
	Price     *float64 `json:"price" validate:"required,gte=0" jsonschema:"required,minimum=0"`
	Quantity  *int     `json:"quantity" validate:"required,gte=1" jsonschema:"required,minimum=1"`
}

// CustomerInfo holds the buyer's contact details.
type CustomerInfo struct {
	Name    *string `json:"name" validate:"required" jsonschema:"required"`
	Email   *string `json:"email" validate:"omitempty,email" jsonschema:"nullable,format=email"`
	Phone   *string `json:"phone" jsonschema:"nullable"`
	Address *string `json:"address" validate:"required" jsonschema:"required"`
}

// OrderRequest is the payload for POST /api/orders. The declared total is checked
// against the items by the orders package, not here.
type OrderRequest struct {
	Items    []OrderItem   `json:"items" validate:"required,min=1,dive" jsonschema:"required,minItems=1"`
	Customer *CustomerInfo `json:"customer" validate:"required" jsonschema:"required"`
	Note     *string       `json:"note" jsonschema:"nullable"`
	Total    *float64      `json:"total" validate:"required,gte=0" jsonschema:"required,minimum=0"`
}

// ToDocument converts a validated request into the stored shape. Absent optional
// fields are stored as null; in_stock defaults to true.
func (r ProductRequest) ToDocument() store.Document {
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}
	return store.Document{
		"name":        *r.Name,
		"description": stringOrNil(r.Description),
		"price":       *r.Price,
		"category":    *r.Category,
		"in_stock":    inStock,
		"image":       stringOrNil(r.Image),
		"ingredients": listOrNil(r.Ingredients),
		"usage":       stringOrNil(r.Usage),
	}
}

func (r ArticleRequest) ToDocument() store.Document {
	return store.Document{
		"title":       *r.Title,
		"summary":     stringOrNil(r.Summary),
		"content":     *r.Content,
		"cover_image": stringOrNil(r.CoverImage),
		"tags":        listOrNil(r.Tags),
	}
}

func (r OrderRequest) ToDocument() store.Document {
	items := make([]interface{}, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, map[string]interface{}{
			"product_id": *it.ProductID,
			"name":       *it.Name,
			"price":      *it.Price,
			"quantity":   *it.Quantity,
		})
	}
	return store.Document{
		"items": items,
		"customer": map[string]interface{}{
			"name":    *r.Customer.Name,
			"email":   stringOrNil(r.Customer.Email),
			"phone":   stringOrNil(r.Customer.Phone),
			"address": *r.Customer.Address,
		},
		"note":  stringOrNil(r.Note),
		"total": *r.Total,
	}
}

func stringOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func listOrNil(l []string) interface{} {
	if l == nil {
		return nil
	}
	out := make([]interface{}, len(l))
	for i, s := range l {
		out[i] = s
	}
	return out
}
