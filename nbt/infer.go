package nbt

import (
	"fmt"
	"math"
	"sort"
)

// FromNative promotes a native Go value to a tag. Integers take the
// narrowest variant that holds the value, non-integer numbers become
// Double (except float32, which keeps its width), booleans become Byte 0/1,
// sequences become lists with the element type inferred from the first
// item, and maps become compounds. Anything unrecognized is stringified.
func FromNative(v any) (Tag, error) {
	switch x := v.(type) {
	case Tag:
		return x, nil
	case bool:
		if x {
			return Byte(1), nil
		}
		return Byte(0), nil
	case int:
		return intTag(int64(x)), nil
	case int8:
		return Byte(x), nil
	case int16:
		return intTag(int64(x)), nil
	case int32:
		return intTag(int64(x)), nil
	case int64:
		return intTag(x), nil
	case uint8:
		return intTag(int64(x)), nil
	case uint16:
		return intTag(int64(x)), nil
	case uint32:
		return intTag(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, errorf(ErrNumericRange, "%d does not fit a long", x)
		}
		return intTag(int64(x)), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, errorf(ErrNumericRange, "%d does not fit a long", x)
		}
		return intTag(int64(x)), nil
	case float32:
		return Float(x), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case []byte:
		return ByteArray(x), nil
	case []int32:
		return IntArray(x), nil
	case []int64:
		return LongArray(x), nil
	case []any:
		return NewListFromNative(x)
	case map[string]any:
		return NewCompoundFromNative(x)
	case nil:
		return String("<nil>"), nil
	default:
		return String(fmt.Sprint(v)), nil
	}
}

func intTag(v int64) Tag {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return Byte(v)
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return Short(v)
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Int(v)
	default:
		return Long(v)
	}
}

// NewCompoundFromNative builds a compound by inferring each value. Entries
// are inserted in sorted key order so the result is deterministic.
func NewCompoundFromNative(entries map[string]any) (*Compound, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c := NewCompound()
	for _, k := range keys {
		t, err := FromNative(entries[k])
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", k, err)
		}
		c.Set(k, t)
	}
	return c, nil
}

// NewListFromNative builds a list from native items. The element type is
// taken from elem if given, otherwise inferred from the first item; items
// of any other type fail.
func NewListFromNative(items []any, elem ...Type) (*List, error) {
	tags := make([]Tag, 0, len(items))
	for i, it := range items {
		t, err := FromNative(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		tags = append(tags, t)
	}

	var et Type
	switch {
	case len(elem) > 0:
		et = elem[0]
		if !et.Valid() {
			return nil, errorf(ErrUnknownVariant, "list element type %d", byte(et))
		}
	case len(tags) > 0:
		et = tags[0].Type()
	default:
		et = TypeByte
	}

	l := &List{Elem: et, Items: make([]Tag, 0, len(tags))}
	for i, t := range tags {
		if t.Type() != et {
			return nil, errorf(ErrListType, "item %d is %s, list is %s", i, t.Type(), et)
		}
		l.Items = append(l.Items, t)
	}
	return l, nil
}
