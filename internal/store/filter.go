package store

import (
	"fmt"
	"reflect"
	"strings"
)

// Filter is a predicate over documents. Backends that cannot translate a Filter
// into their own query language evaluate Match in process.
type Filter interface {
	Match(doc Document) bool
}

// Eq matches documents whose Field equals Value exactly.
type Eq struct {
	Field string
	Value interface{}
}

// Contains matches documents whose string Field contains Substring, ignoring case.
type Contains struct {
	Field     string
	Substring string
}

// AnyContains matches documents where any string element of the list Field
// contains Substring, ignoring case.
type AnyContains struct {
	Field     string
	Substring string
}

// In matches documents whose Field, or any element of Field when it is a list,
// is one of Values.
type In struct {
	Field  string
	Values []interface{}
}

// Or matches when any sub-filter matches. An empty Or matches nothing.
type Or []Filter

// And matches when every sub-filter matches. An empty And matches everything.
type And []Filter

func (f Eq) Match(doc Document) bool {
	v, ok := doc[f.Field]
	if !ok {
		return f.Value == nil
	}
	return equalValues(v, f.Value)
}

func (f Contains) Match(doc Document) bool {
	s, ok := doc[f.Field].(string)
	return ok && containsFold(s, f.Substring)
}

func (f AnyContains) Match(doc Document) bool {
	for _, el := range listValues(doc[f.Field]) {
		if s, ok := el.(string); ok && containsFold(s, f.Substring) {
			return true
		}
	}
	return false
}

func (f In) Match(doc Document) bool {
	v, ok := doc[f.Field]
	if !ok {
		return false
	}
	candidates := listValues(v)
	if candidates == nil {
		candidates = []interface{}{v}
	}
	for _, c := range candidates {
		for _, want := range f.Values {
			if equalValues(c, want) {
				return true
			}
		}
	}
	return false
}

func (f Or) Match(doc Document) bool {
	for _, sub := range f {
		if sub.Match(doc) {
			return true
		}
	}
	return false
}

func (f And) Match(doc Document) bool {
	for _, sub := range f {
		if !sub.Match(doc) {
			return false
		}
	}
	return true
}

// Matches applies filter to doc, treating nil as match-all.
func Matches(filter Filter, doc Document) bool {
	if filter == nil {
		return true
	}
	return filter.Match(doc)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// listValues returns the elements of v if it is a slice or array, else nil.
func listValues(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func equalValues(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if ra, rb := reflect.ValueOf(a), reflect.ValueOf(b); ra.IsValid() && rb.IsValid() &&
		ra.Type().Comparable() && rb.Type().Comparable() && ra.Type() == rb.Type() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// describe renders a filter for log lines and error messages.
func describe(f Filter) string {
	if f == nil {
		return "{}"
	}
	return fmt.Sprintf("%+v", f)
}
