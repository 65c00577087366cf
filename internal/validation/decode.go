package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// Decode fills out, a pointer to a request struct, from a JSON object. Unlike
// json.Unmarshal it does not stop at the first bad field: every field is decoded on
// its own, fields that fail are left zero and reported, and the rest are kept so
// struct validation can still run over them.
func Decode(raw []byte, out interface{}) Errors {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Errors{{Field: "body", Message: "field required"}}
	}
	var errs Errors
	decodeValue("", raw, reflect.ValueOf(out).Elem(), &errs)
	return errs
}

func decodeValue(path string, raw json.RawMessage, dst reflect.Value, errs *Errors) {
	t := dst.Type()
	switch {
	case t.Kind() == reflect.Struct:
		decodeStruct(path, raw, dst, errs)
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		if isNull(raw) {
			return
		}
		v := reflect.New(t.Elem())
		decodeStruct(path, raw, v.Elem(), errs)
		if isObject(raw) {
			dst.Set(v)
		}
	case t.Kind() == reflect.Slice && structElem(t.Elem()):
		if isNull(raw) {
			return
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			*errs = append(*errs, typeError(path, t, err))
			return
		}
		s := reflect.MakeSlice(t, len(elems), len(elems))
		for i, e := range elems {
			decodeValue(path+"["+strconv.Itoa(i)+"]", e, s.Index(i), errs)
		}
		dst.Set(s)
	default:
		v := reflect.New(t)
		if err := json.Unmarshal(raw, v.Interface()); err != nil {
			*errs = append(*errs, typeError(path, t, err))
			return
		}
		dst.Set(v.Elem())
	}
}

func decodeStruct(path string, raw json.RawMessage, dst reflect.Value, errs *Errors) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		*errs = append(*errs, typeError(path, dst.Type(), err))
		return
	}

	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonFieldName(f)
		if name == "" || !f.IsExported() {
			continue
		}
		fieldRaw, ok := fields[name]
		if !ok {
			continue
		}
		fieldPath := joinPath(path, name)
		if isNull(fieldRaw) {
			if !nullable(f) {
				*errs = append(*errs, FieldError{Field: fieldPath, Message: "must not be null"})
			}
			continue
		}
		decodeValue(fieldPath, fieldRaw, dst.Field(i), errs)
	}
}

func typeError(path string, t reflect.Type, err error) FieldError {
	if path == "" {
		path = "body"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return FieldError{Field: path, Message: "invalid JSON: " + syntaxErr.Error()}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return FieldError{Field: path, Message: "must be of type " + jsonType(t.Kind().String())}
}

// nullable reports whether the field's published schema allows null.
func nullable(f reflect.StructField) bool {
	for _, opt := range strings.Split(f.Tag.Get("jsonschema"), ",") {
		if opt == "nullable" {
			return true
		}
	}
	return false
}

func structElem(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '{'
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func jsonType(kind string) string {
	switch kind {
	case "float32", "float64":
		return "number"
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "integer"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "array"
	case "struct", "map":
		return "object"
	default:
		return kind
	}
}
