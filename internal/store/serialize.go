package store

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Serialize shapes a stored document for clients: the internal _id becomes a string
// id and timestamps become RFC 3339 strings, at any depth.
func Serialize(doc Document) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == IDField {
			out["id"] = idString(v)
			continue
		}
		out[k] = serializeValue(v)
	}
	return out
}

// SerializeAll applies Serialize to every document and never returns nil.
func SerializeAll(docs []Document) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, Serialize(d))
	}
	return out
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

func serializeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return formatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return formatTime(*t)
	case primitive.DateTime:
		return formatTime(t.Time())
	case primitive.Timestamp:
		return formatTime(time.Unix(int64(t.T), 0))
	case primitive.ObjectID:
		return t.Hex()
	case primitive.M:
		return serializeMap(t)
	case map[string]interface{}:
		return serializeMap(t)
	case Document:
		return serializeMap(t)
	case primitive.D:
		return serializeMap(t.Map())
	case primitive.A:
		return serializeList(t)
	case []interface{}:
		return serializeList(t)
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, m := range t {
			out[i] = serializeMap(m)
		}
		return out
	default:
		return v
	}
}

func serializeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = serializeValue(v)
	}
	return out
}

func serializeList(l []interface{}) []interface{} {
	out := make([]interface{}, len(l))
	for i, v := range l {
		out[i] = serializeValue(v)
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
