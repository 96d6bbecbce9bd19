package memory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Chunk attribute values are heterogeneous scalars: numbers, strings,
// booleans, or nil. Numeric values of any Go kind are normalized to float64
// so that learning size=3 and probing size=3.0 address the same chunk.

func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("attribute value %v has unsupported type %T: %w", v, v, ErrInvalidParameter)
	}
}

// normalizeAttributes copies attrs with every value normalized. Attribute
// names are kept as given.
func normalizeAttributes(attrs map[string]any) (map[string]any, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("no attributes given: %w", ErrInvalidParameter)
	}
	out := make(map[string]any, len(attrs))
	for name, v := range attrs {
		if name == "" {
			return nil, fmt.Errorf("empty attribute name: %w", ErrInvalidParameter)
		}
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = nv
	}
	return out, nil
}

func numericValue(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// valueKey renders a normalized value as a stable, type-tagged token.
func valueKey(v any) string {
	switch x := v.(type) {
	case nil:
		return "_"
	case string:
		return "s" + strconv.Quote(x)
	case bool:
		if x {
			return "bt"
		}
		return "bf"
	case float64:
		return "n" + strconv.FormatFloat(x, 'g', -1, 64)
	default:
		// normalizeValue admits nothing else
		return fmt.Sprintf("?%v", x)
	}
}

// signatureOf builds the content address of an attribute mapping: the
// sorted attribute names with their value tokens.
func signatureOf(attrs map[string]any) string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(strconv.Quote(name))
		b.WriteByte('=')
		b.WriteString(valueKey(attrs[name]))
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
