package nbt

import (
	"fmt"
	"strconv"
)

// Diagnostic is one finding of Validate: where in the tree and what is
// wrong.
type Diagnostic struct {
	Path    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Message
	}
	return d.Path + ": " + d.Message
}

// Validate traverses the document read-only and reports every structural
// problem it finds: unknown variants, nil children, list items that do not
// match the declared element type. It never fails; a well-formed document
// yields no diagnostics.
func Validate(d *Document) []Diagnostic {
	if d == nil || d.Root == nil {
		return []Diagnostic{{Message: "document has no root"}}
	}
	var out []Diagnostic
	validateTag(d.Root, "", &out)
	return out
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}

func validateTag(t Tag, path string, out *[]Diagnostic) {
	if t == nil {
		*out = append(*out, Diagnostic{Path: path, Message: "nil tag"})
		return
	}
	if !t.Type().Valid() {
		*out = append(*out, Diagnostic{Path: path, Message: fmt.Sprintf("unknown tag type %d", byte(t.Type()))})
		return
	}
	switch x := t.(type) {
	case *List:
		if !x.Elem.Valid() {
			*out = append(*out, Diagnostic{Path: path, Message: fmt.Sprintf("unknown list element type %d", byte(x.Elem))})
		}
		for i, it := range x.Items {
			p := joinPath(path, strconv.Itoa(i))
			if it == nil {
				*out = append(*out, Diagnostic{Path: p, Message: "nil list item"})
				continue
			}
			if it.Type() != x.Elem {
				*out = append(*out, Diagnostic{Path: p, Message: fmt.Sprintf("list of %s holds %s", x.Elem, it.Type())})
			}
			validateTag(it, p, out)
		}
	case *Compound:
		for _, k := range x.keys {
			p := joinPath(path, k)
			child, ok := x.vals[k]
			if !ok || child == nil {
				*out = append(*out, Diagnostic{Path: p, Message: "missing compound entry"})
				continue
			}
			validateTag(child, p, out)
		}
	}
}
