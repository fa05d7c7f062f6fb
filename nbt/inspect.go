package nbt

import (
	"fmt"
	"strconv"
	"strings"
)

type treeWriter struct {
	w *strings.Builder
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Inspect renders the document as an indented tree, descending at most
// maxDepth levels. Collections below the cutoff are summarized by length.
// A maxDepth of 0 or less means no limit.
func Inspect(d *Document, maxDepth int) string {
	if d == nil || d.Root == nil {
		return "<empty document>\n"
	}
	if maxDepth <= 0 {
		maxDepth = int(^uint(0) >> 1)
	}
	tw := treeWriter{w: &strings.Builder{}}
	inspectTag(tw, d.Name, d.Root, 0, maxDepth)
	return tw.w.String()
}

func inspectTag(tw treeWriter, name string, t Tag, depth, maxDepth int) {
	label := t.Type().String()
	if name != "" {
		label += " " + strconv.Quote(name)
	}
	switch x := t.(type) {
	case *Compound:
		tw.line(depth, "%s (%d entries)", label, x.Len())
		if depth+1 > maxDepth {
			return
		}
		for _, k := range x.keys {
			inspectTag(tw, k, x.vals[k], depth+1, maxDepth)
		}
	case *List:
		tw.line(depth, "%s of %s (%d items)", label, x.Elem, len(x.Items))
		if depth+1 > maxDepth {
			return
		}
		for _, it := range x.Items {
			inspectTag(tw, "", it, depth+1, maxDepth)
		}
	case String:
		tw.line(depth, "%s: %s", label, strconv.Quote(string(x)))
	case ByteArray:
		tw.line(depth, "%s (%d bytes)", label, len(x))
	case IntArray:
		tw.line(depth, "%s (%d ints)", label, len(x))
	case LongArray:
		tw.line(depth, "%s (%d longs)", label, len(x))
	default:
		tw.line(depth, "%s: %v", label, scalarValue(t))
	}
}

func scalarValue(t Tag) any {
	switch x := t.(type) {
	case Byte:
		return int8(x)
	case Short:
		return int16(x)
	case Int:
		return int32(x)
	case Long:
		return int64(x)
	case Float:
		return float32(x)
	case Double:
		return float64(x)
	default:
		return t
	}
}
