// Package snbt implements the stringified text form of NBT trees: a
// mirrored emitter and parser such that Parse(Emit(t)) == t for every
// well-formed tag.
package snbt

import (
	"strconv"
	"strings"

	"mcnbt/nbt"
)

// Children whose compact form stays below these limits are collapsed onto
// one line when pretty-printing.
const (
	collapseListLimit     = 20
	collapseCompoundLimit = 30
)

// Emit renders the tag in compact form: no whitespace outside strings.
func Emit(t nbt.Tag) string {
	var b strings.Builder
	emitTag(&b, t)
	return b.String()
}

// EmitPretty renders the tag with two-space indentation. Containers whose
// entries are all short collapse onto a single line. Output is
// deterministic for a given tree.
func EmitPretty(t nbt.Tag) string {
	var b strings.Builder
	emitPretty(&b, t, 0)
	return b.String()
}

// EmitDocument renders a document root; the outer name is not part of the
// text form.
func EmitDocument(d *nbt.Document, pretty bool) string {
	if d == nil || d.Root == nil {
		return ""
	}
	if pretty {
		return EmitPretty(d.Root)
	}
	return Emit(d.Root)
}

func bareKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.' || r == '+'):
		default:
			return false
		}
	}
	return true
}

func emitKey(b *strings.Builder, k string) {
	if bareKey(k) {
		b.WriteString(k)
		return
	}
	emitString(b, k)
}

func emitString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func emitFloat(b *strings.Builder, f float64, bits int, suffix byte) {
	b.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
	b.WriteByte(suffix)
}

func emitTag(b *strings.Builder, t nbt.Tag) {
	switch x := t.(type) {
	case nbt.Byte:
		b.WriteString(strconv.FormatInt(int64(x), 10))
		b.WriteByte('b')
	case nbt.Short:
		b.WriteString(strconv.FormatInt(int64(x), 10))
		b.WriteByte('s')
	case nbt.Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case nbt.Long:
		b.WriteString(strconv.FormatInt(int64(x), 10))
		b.WriteByte('L')
	case nbt.Float:
		emitFloat(b, float64(x), 32, 'f')
	case nbt.Double:
		emitFloat(b, float64(x), 64, 'd')
	case nbt.String:
		emitString(b, string(x))
	case nbt.ByteArray:
		b.WriteString("[B;")
		for i, v := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(int8(v)), 10))
			b.WriteByte('b')
		}
		b.WriteByte(']')
	case nbt.IntArray:
		b.WriteString("[I;")
		for i, v := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(int64(v), 10))
		}
		b.WriteByte(']')
	case nbt.LongArray:
		b.WriteString("[L;")
		for i, v := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(v, 10))
			b.WriteByte('L')
		}
		b.WriteByte(']')
	case *nbt.List:
		b.WriteByte('[')
		for i, it := range x.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			emitTag(b, it)
		}
		b.WriteByte(']')
	case *nbt.Compound:
		b.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			emitKey(b, k)
			b.WriteByte(':')
			v, _ := x.Get(k)
			emitTag(b, v)
		}
		b.WriteByte('}')
	}
}

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}

func emitPretty(b *strings.Builder, t nbt.Tag, depth int) {
	switch x := t.(type) {
	case *nbt.List:
		if len(x.Items) == 0 {
			b.WriteString("[]")
			return
		}
		collapse := true
		for _, it := range x.Items {
			if len(Emit(it)) >= collapseListLimit {
				collapse = false
				break
			}
		}
		if collapse {
			b.WriteByte('[')
			for i, it := range x.Items {
				if i > 0 {
					b.WriteString(", ")
				}
				emitTag(b, it)
			}
			b.WriteByte(']')
			return
		}
		b.WriteString("[\n")
		for i, it := range x.Items {
			indent(b, depth+1)
			emitPretty(b, it, depth+1)
			if i < len(x.Items)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte(']')
	case *nbt.Compound:
		if x.Len() == 0 {
			b.WriteString("{}")
			return
		}
		collapse := true
		for _, k := range x.Keys() {
			v, _ := x.Get(k)
			if len(k)+1+len(Emit(v)) >= collapseCompoundLimit {
				collapse = false
				break
			}
		}
		if collapse {
			b.WriteByte('{')
			for i, k := range x.Keys() {
				if i > 0 {
					b.WriteString(", ")
				}
				emitKey(b, k)
				b.WriteString(": ")
				v, _ := x.Get(k)
				emitTag(b, v)
			}
			b.WriteByte('}')
			return
		}
		b.WriteString("{\n")
		keys := x.Keys()
		for i, k := range keys {
			indent(b, depth+1)
			emitKey(b, k)
			b.WriteString(": ")
			v, _ := x.Get(k)
			emitPretty(b, v, depth+1)
			if i < len(keys)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte('}')
	default:
		emitTag(b, t)
	}
}
