package request

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"net/url"
	"reflect"
	"slices"
	"strconv"

	"github.com/jonwraymond/kore/apierr"
)

// Limits enforced on outbound payloads before any network I/O.
const (
	// MaxBodyBytes is the largest serialized body accepted.
	MaxBodyBytes = 10 << 20

	// MaxDepth is the deepest container nesting accepted. The body itself
	// is at depth 1.
	MaxDepth = 10

	// MaxArrayLength is the largest slice accepted anywhere in a body.
	MaxArrayLength = 1000

	// MaxKeyLength is the longest map key or query parameter name accepted.
	MaxKeyLength = 100
)

// reservedKeys are rejected anywhere in a payload.
var reservedKeys = []string{"__proto__", "constructor", "prototype"}

// ValidateBody checks body against the payload limits and returns an
// *apierr.ValidationError naming the first offending key path.
//
// Keys are visited in sorted order so the reported path is deterministic.
func ValidateBody(body map[string]any) error {
	if body == nil {
		return nil
	}
	if err := validateValue("", reflect.ValueOf(body), 1); err != nil {
		return err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return &apierr.ValidationError{Reason: fmt.Sprintf("body is not serializable: %v", err)}
	}
	if len(raw) > MaxBodyBytes {
		return &apierr.ValidationError{
			Reason: fmt.Sprintf("body is %d bytes, limit is %d", len(raw), MaxBodyBytes),
		}
	}
	return nil
}

// ValidateQuery applies the key rules of ValidateBody to query parameter
// names.
func ValidateQuery(q url.Values) error {
	for _, k := range slices.Sorted(maps.Keys(q)) {
		if err := validateKey("", k); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(path string, v reflect.Value, depth int) error {
	v, ok := indirect(v)
	if !ok {
		return nil
	}

	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil

	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return &apierr.ValidationError{Field: path, Reason: "number is not finite"}
		}
		return nil

	case reflect.Slice, reflect.Array:
		if depth > MaxDepth {
			return depthError(path)
		}
		if v.Len() > MaxArrayLength {
			return &apierr.ValidationError{
				Field:  path,
				Reason: fmt.Sprintf("array has %d elements, limit is %d", v.Len(), MaxArrayLength),
			}
		}
		for i := 0; i < v.Len(); i++ {
			if err := validateValue(indexPath(path, i), v.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if depth > MaxDepth {
			return depthError(path)
		}
		if v.Type().Key().Kind() != reflect.String {
			return &apierr.ValidationError{Field: path, Reason: "map keys must be strings"}
		}
		for _, k := range sortedMapKeys(v) {
			child := keyPath(path, k.String())
			if err := validateKey(child, k.String()); err != nil {
				return err
			}
			if err := validateValue(child, v.MapIndex(k), depth+1); err != nil {
				return err
			}
		}
		return nil

	default:
		return &apierr.ValidationError{
			Field:  path,
			Reason: fmt.Sprintf("unsupported value of type %s", v.Type()),
		}
	}
}

func validateKey(path, key string) error {
	if path == "" {
		path = key
	}
	if slices.Contains(reservedKeys, key) {
		return &apierr.ValidationError{Field: path, Reason: "reserved key"}
	}
	if len(key) > MaxKeyLength {
		return &apierr.ValidationError{
			Field:  path,
			Reason: fmt.Sprintf("key is %d characters, limit is %d", len(key), MaxKeyLength),
		}
	}
	return nil
}

func depthError(path string) error {
	return &apierr.ValidationError{
		Field:  path,
		Reason: fmt.Sprintf("nesting deeper than %d levels", MaxDepth),
	}
}

// indirect unwraps interfaces and pointers. It reports false for nil.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func sortedMapKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	return keys
}

// keyPath and indexPath build bracket paths: a[b][0].
func keyPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

func indexPath(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}
