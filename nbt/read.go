package nbt

import (
	"encoding/binary"
	"math"
)

// maxDepth bounds tree nesting so hostile input cannot exhaust the stack.
const maxDepth = 512

type reader struct {
	data []byte
	pos  int
}

func (r *reader) need(n int) error {
	if len(r.data)-r.pos < n {
		return errorf(ErrTruncated, "need %d bytes at offset %d, have %d", n, r.pos, len(r.data)-r.pos)
	}
	return nil
}

func (r *reader) u8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) i32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *reader) i64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s, err := decodeMUTF8(r.data[r.pos : r.pos+int(n)])
	if err != nil {
		return "", err
	}
	r.pos += int(n)
	return s, nil
}

// count validates a wire length prefix against the remaining input so a
// hostile length cannot trigger a huge allocation. elemSize is the minimum
// wire size of one element.
func (r *reader) count(n int32, elemSize int) (int, error) {
	if n < 0 {
		return 0, errorf(ErrTruncated, "negative length %d at offset %d", n, r.pos)
	}
	if elemSize > 0 && int64(n)*int64(elemSize) > int64(len(r.data)-r.pos) {
		return 0, errorf(ErrTruncated, "declared length %d exceeds remaining input at offset %d", n, r.pos)
	}
	return int(n), nil
}

func (r *reader) payload(t Type, depth int) (Tag, error) {
	if depth > maxDepth {
		return nil, errorf(ErrTruncated, "nesting deeper than %d", maxDepth)
	}
	switch t {
	case TypeByte:
		b, err := r.u8()
		return Byte(b), err
	case TypeShort:
		v, err := r.u16()
		return Short(v), err
	case TypeInt:
		v, err := r.i32()
		return Int(v), err
	case TypeLong:
		v, err := r.i64()
		return Long(v), err
	case TypeFloat:
		v, err := r.i32()
		return Float(math.Float32frombits(uint32(v))), err
	case TypeDouble:
		v, err := r.i64()
		return Double(math.Float64frombits(uint64(v))), err
	case TypeByteArray:
		n32, err := r.i32()
		if err != nil {
			return nil, err
		}
		n, err := r.count(n32, 1)
		if err != nil {
			return nil, err
		}
		out := make(ByteArray, n)
		copy(out, r.data[r.pos:r.pos+n])
		r.pos += n
		return out, nil
	case TypeString:
		s, err := r.str()
		return String(s), err
	case TypeList:
		et, err := r.u8()
		if err != nil {
			return nil, err
		}
		n32, err := r.i32()
		if err != nil {
			return nil, err
		}
		elem := Type(et)
		if n32 <= 0 {
			// empty lists are written with element id End; they read back
			// as lists of Byte
			if elem == TypeEnd {
				elem = TypeByte
			}
			if !elem.Valid() {
				return nil, errorf(ErrUnknownVariant, "list element id %#02x at offset %d", et, r.pos)
			}
			return &List{Elem: elem}, nil
		}
		if !elem.Valid() {
			return nil, errorf(ErrUnknownVariant, "list element id %#02x at offset %d", et, r.pos)
		}
		n, err := r.count(n32, 1)
		if err != nil {
			return nil, err
		}
		items := make([]Tag, 0, n)
		for range n {
			it, err := r.payload(elem, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return &List{Elem: elem, Items: items}, nil
	case TypeCompound:
		c := NewCompound()
		for {
			id, err := r.u8()
			if err != nil {
				return nil, err
			}
			ct := Type(id)
			if ct == TypeEnd {
				return c, nil
			}
			if !ct.Valid() {
				return nil, errorf(ErrUnknownVariant, "tag id %#02x at offset %d", id, r.pos-1)
			}
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			child, err := r.payload(ct, depth+1)
			if err != nil {
				return nil, err
			}
			c.Set(name, child)
		}
	case TypeIntArray:
		n32, err := r.i32()
		if err != nil {
			return nil, err
		}
		n, err := r.count(n32, 4)
		if err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			v, err := r.i32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TypeLongArray:
		n32, err := r.i32()
		if err != nil {
			return nil, err
		}
		n, err := r.count(n32, 8)
		if err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			v, err := r.i64()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, errorf(ErrUnknownVariant, "tag id %#02x", byte(t))
}

// Read parses one named tag from the beginning of data and returns the
// document together with the number of bytes consumed.
func Read(data []byte) (*Document, int, error) {
	return ReadAt(data, 0)
}

// ReadAt parses one named tag starting at the given offset.
func ReadAt(data []byte, offset int) (*Document, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, errorf(ErrTruncated, "offset %d outside buffer of %d bytes", offset, len(data))
	}
	r := &reader{data: data, pos: offset}
	id, err := r.u8()
	if err != nil {
		return nil, 0, err
	}
	t := Type(id)
	if !t.Valid() {
		return nil, 0, errorf(ErrUnknownVariant, "tag id %#02x at offset %d", id, offset)
	}
	name, err := r.str()
	if err != nil {
		return nil, 0, err
	}
	root, err := r.payload(t, 0)
	if err != nil {
		return nil, 0, err
	}
	return &Document{Name: name, Root: root}, r.pos - offset, nil
}
