package nbt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The JSON view of a document is {"name","type","value"} where value is a
// recursive erasure of the tree: numeric variants become JSON numbers
// except Long, which becomes a string so 64-bit values survive JSON
// readers that parse numbers as doubles. LongArray becomes an array of
// strings. List element types and exact integer widths are not
// represented; ingest recovers them by inference unless a type hint is
// given.

// ToJSON renders the document's JSON view. Compound entries keep their
// insertion order.
func ToJSON(d *Document) ([]byte, error) {
	if d == nil || d.Root == nil {
		return nil, errorf(ErrUnknownVariant, "empty document")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeJSONString(&buf, d.Name)
	buf.WriteString(`,"type":`)
	writeJSONString(&buf, strings.ToLower(d.Root.Type().String()))
	buf.WriteString(`,"value":`)
	if err := writeJSONValue(&buf, d.Root); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeJSONValue(buf *bytes.Buffer, t Tag) error {
	switch x := t.(type) {
	case Byte:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Short:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Long:
		// quoted: JSON numbers cannot carry full 64-bit precision
		writeJSONString(buf, strconv.FormatInt(int64(x), 10))
	case Float:
		return writeJSONFloat(buf, float64(x))
	case Double:
		return writeJSONFloat(buf, float64(x))
	case String:
		writeJSONString(buf, string(x))
	case ByteArray:
		buf.WriteByte('[')
		for i, v := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(int(v)))
		}
		buf.WriteByte(']')
	case IntArray:
		buf.WriteByte('[')
		for i, v := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.FormatInt(int64(v), 10))
		}
		buf.WriteByte(']')
	case LongArray:
		buf.WriteByte('[')
		for i, v := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, strconv.FormatInt(v, 10))
		}
		buf.WriteByte(']')
	case *List:
		buf.WriteByte('[')
		for i, it := range x.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, it); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Compound:
		buf.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := writeJSONValue(buf, x.vals[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errorf(ErrUnknownVariant, "tag %T", t)
	}
	return nil
}

func writeJSONFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errorf(ErrNumericRange, "%v has no JSON representation", f)
	}
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// jsonObject preserves member order of a decoded JSON object.
type jsonObject struct {
	keys []string
	vals map[string]any
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONFrom(dec, tok)
}

func decodeJSONFrom(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &jsonObject{vals: make(map[string]any)}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := kt.(string)
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				if _, dup := obj.vals[key]; !dup {
					obj.keys = append(obj.keys, key)
				}
				obj.vals[key] = v
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return tok, nil
	}
}

var jsonTypeNames = func() map[string]Type {
	m := make(map[string]Type, int(maxType))
	for t := TypeByte; t <= maxType; t++ {
		m[strings.ToLower(t.String())] = t
	}
	return m
}()

// FromJSON reconstructs a document from its JSON view. A top-level (or
// nested) {"type": ..., "value": ...} envelope forces the named variant;
// everything else is promoted by inference: integral numbers take the
// narrowest variant that fits, other numbers become Double, objects become
// compounds in member order.
func FromJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("nbt: json: %w", err)
	}

	name := ""
	if obj, ok := v.(*jsonObject); ok {
		if n, ok := obj.vals["name"].(string); ok && isEnvelope(obj) {
			name = n
		}
	}
	root, err := tagFromJSON(v)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Root: root}, nil
}

func isEnvelope(obj *jsonObject) bool {
	tn, ok := obj.vals["type"].(string)
	if !ok {
		return false
	}
	if _, ok := jsonTypeNames[strings.ToLower(tn)]; !ok {
		return false
	}
	if _, ok := obj.vals["value"]; !ok {
		return false
	}
	for _, k := range obj.keys {
		switch k {
		case "name", "type", "value":
		default:
			return false
		}
	}
	return true
}

func tagFromJSON(v any) (Tag, error) {
	if obj, ok := v.(*jsonObject); ok && isEnvelope(obj) {
		return tagFromJSONTyped(jsonTypeNames[strings.ToLower(obj.vals["type"].(string))], obj.vals["value"])
	}
	switch x := v.(type) {
	case nil:
		return String("null"), nil
	case bool:
		if x {
			return Byte(1), nil
		}
		return Byte(0), nil
	case string:
		return String(x), nil
	case json.Number:
		return numberTag(x)
	case []any:
		// an all-integer array takes one width fitting every value, so
		// [0, 127, 255] does not splinter into Byte and Short items
		if l, ok, err := intListFromJSON(x); err != nil {
			return nil, err
		} else if ok {
			return l, nil
		}
		items := make([]Tag, 0, len(x))
		for i, it := range x {
			t, err := tagFromJSON(it)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, t)
		}
		if len(items) == 0 {
			return &List{Elem: TypeByte}, nil
		}
		et := items[0].Type()
		for i, t := range items {
			if t.Type() != et {
				return nil, errorf(ErrListType, "item %d is %s, list is %s", i, t.Type(), et)
			}
		}
		return &List{Elem: et, Items: items}, nil
	case *jsonObject:
		c := NewCompound()
		for _, k := range x.keys {
			t, err := tagFromJSON(x.vals[k])
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", k, err)
			}
			c.Set(k, t)
		}
		return c, nil
	default:
		return String(fmt.Sprint(v)), nil
	}
}

// intListFromJSON handles arrays whose members are all integral numbers.
// ok is false when the array holds anything else.
func intListFromJSON(arr []any) (*List, bool, error) {
	if len(arr) == 0 {
		return nil, false, nil
	}
	vals := make([]int64, 0, len(arr))
	for _, it := range arr {
		n, ok := it.(json.Number)
		if !ok || strings.ContainsAny(n.String(), ".eE") {
			return nil, false, nil
		}
		v, err := n.Int64()
		if err != nil {
			return nil, false, errorf(ErrNumericRange, "%s does not fit a long", n.String())
		}
		vals = append(vals, v)
	}

	elem := TypeByte
	for _, v := range vals {
		if t := intTag(v).Type(); t > elem {
			elem = t
		}
	}
	l := &List{Elem: elem, Items: make([]Tag, 0, len(vals))}
	for _, v := range vals {
		switch elem {
		case TypeByte:
			l.Items = append(l.Items, Byte(v))
		case TypeShort:
			l.Items = append(l.Items, Short(v))
		case TypeInt:
			l.Items = append(l.Items, Int(v))
		default:
			l.Items = append(l.Items, Long(v))
		}
	}
	return l, true, nil
}

func numberTag(n json.Number) (Tag, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if v, err := n.Int64(); err == nil {
			return intTag(v), nil
		}
		return nil, errorf(ErrNumericRange, "%s does not fit a long", s)
	}
	f, err := n.Float64()
	if err != nil {
		return nil, errorf(ErrNumericRange, "%s", s)
	}
	return Double(f), nil
}

func jsonInt(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Int64()
	case string:
		// the view quotes longs
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, errorf(ErrTypeMismatch, "expected integer, got %T", v)
	}
}

func tagFromJSONTyped(t Type, v any) (Tag, error) {
	switch t {
	case TypeByte, TypeShort, TypeInt, TypeLong:
		i, err := jsonInt(v)
		if err != nil {
			return nil, err
		}
		limits := map[Type][2]int64{
			TypeByte:  {math.MinInt8, math.MaxInt8},
			TypeShort: {math.MinInt16, math.MaxInt16},
			TypeInt:   {math.MinInt32, math.MaxInt32},
			TypeLong:  {math.MinInt64, math.MaxInt64},
		}[t]
		if i < limits[0] || i > limits[1] {
			return nil, errorf(ErrNumericRange, "%d does not fit %s", i, t)
		}
		switch t {
		case TypeByte:
			return Byte(i), nil
		case TypeShort:
			return Short(i), nil
		case TypeInt:
			return Int(i), nil
		default:
			return Long(i), nil
		}
	case TypeFloat, TypeDouble:
		n, ok := v.(json.Number)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected number, got %T", v)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, errorf(ErrNumericRange, "%s", n.String())
		}
		if t == TypeFloat {
			return Float(f), nil
		}
		return Double(f), nil
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected string, got %T", v)
		}
		return String(s), nil
	case TypeByteArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected array, got %T", v)
		}
		out := make(ByteArray, len(arr))
		for i, it := range arr {
			n, err := jsonInt(it)
			if err != nil {
				return nil, err
			}
			// accept both signed and unsigned byte notations
			if n < math.MinInt8 || n > math.MaxUint8 {
				return nil, errorf(ErrNumericRange, "%d does not fit a byte", n)
			}
			out[i] = byte(n)
		}
		return out, nil
	case TypeIntArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected array, got %T", v)
		}
		out := make(IntArray, len(arr))
		for i, it := range arr {
			n, err := jsonInt(it)
			if err != nil {
				return nil, err
			}
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, errorf(ErrNumericRange, "%d does not fit an int", n)
			}
			out[i] = int32(n)
		}
		return out, nil
	case TypeLongArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected array, got %T", v)
		}
		out := make(LongArray, len(arr))
		for i, it := range arr {
			n, err := jsonInt(it)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case TypeList:
		arr, ok := v.([]any)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected array, got %T", v)
		}
		return tagFromJSON(arr)
	case TypeCompound:
		obj, ok := v.(*jsonObject)
		if !ok {
			return nil, errorf(ErrTypeMismatch, "expected object, got %T", v)
		}
		c := NewCompound()
		for _, k := range obj.keys {
			child, err := tagFromJSON(obj.vals[k])
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", k, err)
			}
			c.Set(k, child)
		}
		return c, nil
	}
	return nil, errorf(ErrUnknownVariant, "type %d", byte(t))
}
