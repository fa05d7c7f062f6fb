package nbt

import (
	"encoding/binary"
	"math"
)

type writer struct {
	buf []byte
}

func (w *writer) u8(b byte) {
	w.buf = append(w.buf, b)
}

func (w *writer) u16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *writer) str(s string) error {
	n := mutf8Len(s)
	if n > math.MaxUint16 {
		return errorf(ErrStringTooLong, "%d bytes", n)
	}
	w.u16(uint16(n))
	w.buf = appendMUTF8(w.buf, s)
	return nil
}

func (w *writer) payload(t Tag) error {
	switch x := t.(type) {
	case Byte:
		w.u8(byte(x))
	case Short:
		w.u16(uint16(x))
	case Int:
		w.u32(uint32(x))
	case Long:
		w.u64(uint64(x))
	case Float:
		w.u32(math.Float32bits(float32(x)))
	case Double:
		w.u64(math.Float64bits(float64(x)))
	case ByteArray:
		if len(x) > math.MaxInt32 {
			return errorf(ErrNumericRange, "byte array length %d", len(x))
		}
		w.u32(uint32(len(x)))
		w.buf = append(w.buf, x...)
	case String:
		return w.str(string(x))
	case *List:
		if len(x.Items) == 0 {
			// compatibility: empty lists carry element id End on the wire
			w.u8(byte(TypeEnd))
			w.u32(0)
			return nil
		}
		if !x.Elem.Valid() {
			return errorf(ErrUnknownVariant, "list element type %d", byte(x.Elem))
		}
		w.u8(byte(x.Elem))
		if len(x.Items) > math.MaxInt32 {
			return errorf(ErrNumericRange, "list length %d", len(x.Items))
		}
		w.u32(uint32(len(x.Items)))
		for _, it := range x.Items {
			if it == nil || it.Type() != x.Elem {
				return errorf(ErrListType, "list of %s holds %s", x.Elem, tagTypeName(it))
			}
			if err := w.payload(it); err != nil {
				return err
			}
		}
	case *Compound:
		for _, k := range x.keys {
			child := x.vals[k]
			if child == nil || !child.Type().Valid() {
				return errorf(ErrUnknownVariant, "compound entry %q", k)
			}
			w.u8(byte(child.Type()))
			if err := w.str(k); err != nil {
				return err
			}
			if err := w.payload(child); err != nil {
				return err
			}
		}
		w.u8(byte(TypeEnd))
	case IntArray:
		if len(x) > math.MaxInt32 {
			return errorf(ErrNumericRange, "int array length %d", len(x))
		}
		w.u32(uint32(len(x)))
		for _, v := range x {
			w.u32(uint32(v))
		}
	case LongArray:
		if len(x) > math.MaxInt32 {
			return errorf(ErrNumericRange, "long array length %d", len(x))
		}
		w.u32(uint32(len(x)))
		for _, v := range x {
			w.u64(uint64(v))
		}
	default:
		return errorf(ErrUnknownVariant, "tag %T", t)
	}
	return nil
}

func tagTypeName(t Tag) string {
	if t == nil {
		return "nil"
	}
	return t.Type().String()
}

// Write serializes the document as one named tag: type id, outer name,
// payload. Output is deterministic: the same tree always produces the same
// bytes.
func Write(d *Document) ([]byte, error) {
	if d == nil || d.Root == nil {
		return nil, errorf(ErrUnknownVariant, "empty document")
	}
	if !d.Root.Type().Valid() {
		return nil, errorf(ErrUnknownVariant, "root type %d", byte(d.Root.Type()))
	}
	w := &writer{buf: make([]byte, 0, 256)}
	w.u8(byte(d.Root.Type()))
	if err := w.str(d.Name); err != nil {
		return nil, err
	}
	if err := w.payload(d.Root); err != nil {
		return nil, err
	}
	return w.buf, nil
}
