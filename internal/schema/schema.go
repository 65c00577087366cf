// Package schema names the managed collections and describes each resource as a
// JSON Schema reflected from the request types, for client tooling.
package schema

import (
	"github.com/invopop/jsonschema"

	"github.com/imrishuroy/go-herbal-store/internal/validation"
)

// Collection names.
const (
	Products = "herbalproduct"
	Articles = "article"
	Orders   = "order"
)

// Collections lists every managed collection.
func Collections() []string {
	return []string{Products, Articles, Orders}
}

var models = []struct {
	name  string
	value interface{}
}{
	{"HerbalProduct", &validation.ProductRequest{}},
	{"Article", &validation.ArticleRequest{}},
	{"Order", &validation.OrderRequest{}},
}

// Models returns the JSON Schema of every resource keyed by model name.
func Models() map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(models))
	for _, m := range models {
		out[m.name] = Of(m.name, m.value)
	}
	return out
}

// Of reflects the schema of the struct v points to. Constraints come from the
// jsonschema tags; nested structs are emitted under $defs. Unknown properties are
// allowed, as the handlers ignore them.
func Of(title string, v interface{}) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                  true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(v)
	s.Title = title
	return s
}
