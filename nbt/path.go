package nbt

import (
	"strconv"
	"strings"
)

// Paths address nodes of a document as dot-separated segments: a numeric
// segment indexes a list, any other segment names a compound entry.
// "Level.Sections.0.Y" reads entry Y of the first section.

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func pathStep(cur Tag, seg string) (Tag, bool) {
	switch x := cur.(type) {
	case *Compound:
		return x.Get(seg)
	case *List:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(x.Items) {
			return nil, false
		}
		return x.Items[i], true
	default:
		return nil, false
	}
}

// Get returns the tag addressed by path, or false if any segment is
// missing. The empty path addresses the root.
func (d *Document) Get(path string) (Tag, bool) {
	if d == nil || d.Root == nil {
		return nil, false
	}
	cur := d.Root
	for _, seg := range splitPath(path) {
		next, ok := pathStep(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Set replaces the tag at the last path segment. All parent segments must
// already exist; the final segment may name a new compound entry. Values
// that are not tags are promoted with FromNative first.
func (d *Document) Set(path string, value any) error {
	t, err := FromNative(value)
	if err != nil {
		return err
	}
	segs := splitPath(path)
	if len(segs) == 0 {
		return errorf(ErrInvalidPath, "empty path")
	}

	parent := d.Root
	for i, seg := range segs[:len(segs)-1] {
		next, ok := pathStep(parent, seg)
		if !ok {
			return errorf(ErrInvalidPath, "missing segment %q in %q", seg, strings.Join(segs[:i+1], "."))
		}
		parent = next
	}

	last := segs[len(segs)-1]
	switch p := parent.(type) {
	case *Compound:
		p.Set(last, t)
		return nil
	case *List:
		i, err := strconv.Atoi(last)
		if err != nil {
			return errorf(ErrInvalidPath, "list index %q", last)
		}
		if i < 0 || i >= len(p.Items) {
			return errorf(ErrIndexRange, "index %d, list length %d", i, len(p.Items))
		}
		if t.Type() != p.Elem {
			return errorf(ErrListType, "cannot place %s into list of %s", t.Type(), p.Elem)
		}
		p.Items[i] = t
		return nil
	default:
		return errorf(ErrTypeMismatch, "segment %q addresses into a %s", last, tagTypeName(parent))
	}
}

// Remove deletes the compound entry or list item at the last path segment.
// Missing paths are not an error; the return value reports whether
// something was removed.
func (d *Document) Remove(path string) bool {
	segs := splitPath(path)
	if len(segs) == 0 {
		return false
	}
	parent := d.Root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := pathStep(parent, seg)
		if !ok {
			return false
		}
		parent = next
	}
	last := segs[len(segs)-1]
	switch p := parent.(type) {
	case *Compound:
		if _, ok := p.Get(last); !ok {
			return false
		}
		p.Delete(last)
		return true
	case *List:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(p.Items) {
			return false
		}
		p.Items = append(p.Items[:i], p.Items[i+1:]...)
		return true
	default:
		return false
	}
}
