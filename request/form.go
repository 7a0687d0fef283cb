package request

import (
	"net/url"
	"reflect"
	"strconv"

	"github.com/jonwraymond/kore/apierr"
)

// EncodeForm flattens body into form values using bracket notation:
//
//	{"a": {"b": ["x"]}}  ->  a[b][0]=x
//
// Map keys are emitted in sorted order and nil values are omitted.
// Nesting deeper than MaxDepth is an *apierr.ValidationError.
func EncodeForm(body map[string]any) (url.Values, error) {
	out := url.Values{}
	if body == nil {
		return out, nil
	}
	if err := encodeValue(out, "", reflect.ValueOf(body), 1); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeValue(out url.Values, prefix string, v reflect.Value, depth int) error {
	v, ok := indirect(v)
	if !ok {
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		out.Add(prefix, v.String())
	case reflect.Bool:
		out.Add(prefix, strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.Add(prefix, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.Add(prefix, strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		out.Add(prefix, strconv.FormatFloat(v.Float(), 'f', -1, 32))
	case reflect.Float64:
		out.Add(prefix, strconv.FormatFloat(v.Float(), 'f', -1, 64))

	case reflect.Slice, reflect.Array:
		if depth > MaxDepth {
			return depthError(prefix)
		}
		for i := 0; i < v.Len(); i++ {
			if err := encodeValue(out, indexPath(prefix, i), v.Index(i), depth+1); err != nil {
				return err
			}
		}

	case reflect.Map:
		if depth > MaxDepth {
			return depthError(prefix)
		}
		if v.Type().Key().Kind() != reflect.String {
			return &apierr.ValidationError{Field: prefix, Reason: "map keys must be strings"}
		}
		for _, k := range sortedMapKeys(v) {
			if err := encodeValue(out, keyPath(prefix, k.String()), v.MapIndex(k), depth+1); err != nil {
				return err
			}
		}

	default:
		return &apierr.ValidationError{
			Field:  prefix,
			Reason: "unsupported value of type " + v.Type().String(),
		}
	}
	return nil
}
