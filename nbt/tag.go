// Package nbt implements the named binary tag serialization used by
// Minecraft world data: the tag tree model, the big-endian wire codec with
// gzip wrappers, a dot-path editor with native value inference, validation
// and a JSON view.
//
// reference: https://minecraft.wiki/w/NBT_format
package nbt

import "math"

// Type identifies a tag payload variant. Values match the wire ids.
type Type byte

const (
	TypeEnd Type = iota // compound terminator, never a value
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

const maxType = TypeLongArray

var typeNames = map[Type]string{
	TypeEnd:       "End",
	TypeByte:      "Byte",
	TypeShort:     "Short",
	TypeInt:       "Int",
	TypeLong:      "Long",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeByteArray: "ByteArray",
	TypeString:    "String",
	TypeList:      "List",
	TypeCompound:  "Compound",
	TypeIntArray:  "IntArray",
	TypeLongArray: "LongArray",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// Valid reports whether t is a known payload variant (End excluded).
func (t Type) Valid() bool {
	return t > TypeEnd && t <= maxType
}

// Tag is one node of an NBT tree. Concrete types are Byte, Short, Int,
// Long, Float, Double, ByteArray, String, *List, *Compound, IntArray and
// LongArray. Names are not part of a tag: they live on compound entries and
// on the document root.
type Tag interface {
	Type() Type
}

type (
	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64

	// ByteArray elements are surfaced unsigned; the wire stores the same
	// bytes reinterpreted as signed.
	ByteArray []byte

	String string

	IntArray  []int32
	LongArray []int64
)

func (Byte) Type() Type      { return TypeByte }
func (Short) Type() Type     { return TypeShort }
func (Int) Type() Type       { return TypeInt }
func (Long) Type() Type      { return TypeLong }
func (Float) Type() Type     { return TypeFloat }
func (Double) Type() Type    { return TypeDouble }
func (ByteArray) Type() Type { return TypeByteArray }
func (String) Type() Type    { return TypeString }
func (IntArray) Type() Type  { return TypeIntArray }
func (LongArray) Type() Type { return TypeLongArray }

// List is a homogeneous sequence: every item must be of the declared
// element type. An empty list has element type Byte unless declared
// otherwise (the wire stores empty lists with element id End regardless).
type List struct {
	Elem  Type
	Items []Tag
}

func (*List) Type() Type { return TypeList }

// NewList returns an empty list of the given element type.
func NewList(elem Type) *List {
	return &List{Elem: elem}
}

// Append adds items to the list, checking them against the element type.
func (l *List) Append(items ...Tag) error {
	for _, it := range items {
		if it == nil {
			return errorf(ErrListType, "nil item")
		}
		if it.Type() != l.Elem {
			return errorf(ErrListType, "cannot append %s to list of %s", it.Type(), l.Elem)
		}
	}
	l.Items = append(l.Items, items...)
	return nil
}

func (l *List) Len() int {
	return len(l.Items)
}

// Compound is a mapping from names to tags with observable insertion
// order. Setting an existing key overwrites in place and keeps its
// position.
type Compound struct {
	keys []string
	vals map[string]Tag
}

func (*Compound) Type() Type { return TypeCompound }

func NewCompound() *Compound {
	return &Compound{vals: make(map[string]Tag)}
}

func (c *Compound) Len() int {
	return len(c.keys)
}

// Keys returns entry names in insertion order. The slice is shared: do not
// modify.
func (c *Compound) Keys() []string {
	return c.keys
}

func (c *Compound) Get(name string) (Tag, bool) {
	t, ok := c.vals[name]
	return t, ok
}

func (c *Compound) Set(name string, t Tag) {
	if c.vals == nil {
		c.vals = make(map[string]Tag)
	}
	if _, ok := c.vals[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.vals[name] = t
}

func (c *Compound) Delete(name string) {
	if _, ok := c.vals[name]; !ok {
		return
	}
	delete(c.vals, name)
	for i, k := range c.keys {
		if k == name {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Document is a top-level tag labeled with an outer name, conventionally a
// compound with an empty name.
type Document struct {
	Name string
	Root Tag
}

// NewDocument returns a document with an empty compound root.
func NewDocument(name string) *Document {
	return &Document{Name: name, Root: NewCompound()}
}

// Equal reports structural equality of two tags. Lists compare element
// types and items; compounds compare entry sets and insertion order.
// Floats compare bit patterns so NaN payloads survive comparison.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case Byte:
		return x == b.(Byte)
	case Short:
		return x == b.(Short)
	case Int:
		return x == b.(Int)
	case Long:
		return x == b.(Long)
	case Float:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Double)))
	case String:
		return x == b.(String)
	case ByteArray:
		y := b.(ByteArray)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case IntArray:
		y := b.(IntArray)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case LongArray:
		y := b.(LongArray)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case *List:
		y := b.(*List)
		if x.Elem != y.Elem || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		y := b.(*Compound)
		if len(x.keys) != len(y.keys) {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k {
				return false
			}
			if !Equal(x.vals[k], y.vals[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports structural equality of two documents including outer names.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Name == o.Name && Equal(d.Root, o.Root)
}

// Copy returns a deep copy of the tag.
func Copy(t Tag) Tag {
	switch x := t.(type) {
	case ByteArray:
		out := make(ByteArray, len(x))
		copy(out, x)
		return out
	case IntArray:
		out := make(IntArray, len(x))
		copy(out, x)
		return out
	case LongArray:
		out := make(LongArray, len(x))
		copy(out, x)
		return out
	case *List:
		out := &List{Elem: x.Elem, Items: make([]Tag, len(x.Items))}
		for i, it := range x.Items {
			out.Items[i] = Copy(it)
		}
		return out
	case *Compound:
		out := NewCompound()
		for _, k := range x.keys {
			out.Set(k, Copy(x.vals[k]))
		}
		return out
	default:
		// scalars are values
		return t
	}
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	if d == nil {
		return nil
	}
	return &Document{Name: d.Name, Root: Copy(d.Root)}
}
