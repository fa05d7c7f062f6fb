package nbt

import (
	"errors"
	"testing"
)

func levelDoc() *Document {
	sections := &List{Elem: TypeCompound}
	for i := range 2 {
		s := NewCompound()
		s.Set("Y", Byte(int8(i)))
		sections.Items = append(sections.Items, s)
	}
	level := NewCompound()
	level.Set("Name", String("world"))
	level.Set("Sections", sections)
	root := NewCompound()
	root.Set("Level", level)
	return &Document{Root: root}
}

func TestGet(t *testing.T) {
	d := levelDoc()

	cases := []struct {
		path string
		want Tag
	}{
		{"Level.Name", String("world")},
		{"Level.Sections.0.Y", Byte(0)},
		{"Level.Sections.1.Y", Byte(1)},
	}
	for _, tc := range cases {
		got, ok := d.Get(tc.path)
		if !ok {
			t.Errorf("Get(%q) missing", tc.path)
			continue
		}
		if !Equal(got, tc.want) {
			t.Errorf("Get(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}

	for _, path := range []string{"Level.Nope", "Level.Sections.2", "Level.Sections.x", "Level.Name.deep"} {
		if _, ok := d.Get(path); ok {
			t.Errorf("Get(%q) unexpectedly found something", path)
		}
	}

	if root, ok := d.Get(""); !ok || root != d.Root {
		t.Error("Get(\"\") does not return the root")
	}
}

func TestSet(t *testing.T) {
	d := levelDoc()

	if err := d.Set("Level.Name", "hub"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := d.Get("Level.Name"); !Equal(got, String("hub")) {
		t.Errorf("after Set, Name = %v", got)
	}

	// native values are promoted
	if err := d.Set("Level.Time", 100000); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := d.Get("Level.Time"); !Equal(got, Int(100000)) {
		t.Errorf("after Set, Time = %v (%T)", got, got)
	}

	// list element replacement must keep the element type
	if err := d.Set("Level.Sections.1", NewCompound()); err != nil {
		t.Fatalf("Set() list item error = %v", err)
	}
	if err := d.Set("Level.Sections.1", Byte(1)); !errors.Is(err, ErrListType) {
		t.Errorf("Set() wrong list item type error = %v, want ErrListType", err)
	}

	t.Run("failures", func(t *testing.T) {
		if err := d.Set("", Byte(1)); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Set(\"\") error = %v, want ErrInvalidPath", err)
		}
		if err := d.Set("Nope.deep", Byte(1)); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Set() with missing parent error = %v, want ErrInvalidPath", err)
		}
		if err := d.Set("Level.Sections.7", NewCompound()); !errors.Is(err, ErrIndexRange) {
			t.Errorf("Set() past list end error = %v, want ErrIndexRange", err)
		}
		if err := d.Set("Level.Name.x", Byte(1)); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Set() into scalar error = %v, want ErrTypeMismatch", err)
		}
	})
}

func TestRemove(t *testing.T) {
	d := levelDoc()
	if !d.Remove("Level.Name") {
		t.Error("Remove() of existing entry returned false")
	}
	if _, ok := d.Get("Level.Name"); ok {
		t.Error("entry still present after Remove()")
	}
	if d.Remove("Level.Name") {
		t.Error("Remove() of missing entry returned true")
	}
	if !d.Remove("Level.Sections.0") {
		t.Error("Remove() of list item returned false")
	}
	if got, _ := d.Get("Level.Sections"); len(got.(*List).Items) != 1 {
		t.Error("list item was not removed")
	}
}
