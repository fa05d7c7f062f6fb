package nbt

import (
	"errors"
	"testing"
)

func TestFromNative(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Tag
	}{
		{"bool true", true, Byte(1)},
		{"bool false", false, Byte(0)},
		{"small int", 100, Byte(100)},
		{"byte boundary", -128, Byte(-128)},
		{"short", 1000, Short(1000)},
		{"short boundary", 32767, Short(32767)},
		{"int", 40000, Int(40000)},
		{"long", int64(1) << 40, Long(1 << 40)},
		{"float32", float32(1.5), Float(1.5)},
		{"float64", 2.5, Double(2.5)},
		{"string", "hi", String("hi")},
		{"bytes", []byte{1, 2}, ByteArray{1, 2}},
		{"ints", []int32{1, 2}, IntArray{1, 2}},
		{"longs", []int64{1, 2}, LongArray{1, 2}},
		{"nil", nil, String("<nil>")},
		{"tag passthrough", Short(7), Short(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromNative(tc.in)
			if err != nil {
				t.Fatalf("FromNative() error = %v", err)
			}
			if !Equal(got, tc.want) {
				t.Errorf("FromNative(%v) = %v (%s), want %v (%s)", tc.in, got, got.Type(), tc.want, tc.want.Type())
			}
		})
	}
}

func TestNewCompoundFromNative(t *testing.T) {
	c, err := NewCompoundFromNative(map[string]any{
		"b":      true,
		"a":      5,
		"nested": map[string]any{"x": "y"},
		"list":   []any{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("NewCompoundFromNative() error = %v", err)
	}

	// deterministic: sorted key order
	want := []string{"a", "b", "list", "nested"}
	keys := c.Keys()
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], k)
		}
	}

	l, _ := c.Get("list")
	if l.(*List).Elem != TypeByte {
		t.Errorf("inferred list element = %s, want Byte", l.(*List).Elem)
	}
}

func TestNewListFromNative(t *testing.T) {
	t.Run("inferred from first item", func(t *testing.T) {
		l, err := NewListFromNative([]any{"a", "b"})
		if err != nil {
			t.Fatalf("NewListFromNative() error = %v", err)
		}
		if l.Elem != TypeString || len(l.Items) != 2 {
			t.Errorf("list = %s x %d", l.Elem, len(l.Items))
		}
	})

	t.Run("explicit element type", func(t *testing.T) {
		l, err := NewListFromNative(nil, TypeCompound)
		if err != nil {
			t.Fatalf("NewListFromNative() error = %v", err)
		}
		if l.Elem != TypeCompound || len(l.Items) != 0 {
			t.Errorf("list = %s x %d", l.Elem, len(l.Items))
		}
	})

	t.Run("heterogeneous", func(t *testing.T) {
		if _, err := NewListFromNative([]any{1, "x"}); !errors.Is(err, ErrListType) {
			t.Errorf("NewListFromNative() error = %v, want ErrListType", err)
		}
	})

	t.Run("mismatched explicit type", func(t *testing.T) {
		if _, err := NewListFromNative([]any{"x"}, TypeInt); !errors.Is(err, ErrListType) {
			t.Errorf("NewListFromNative() error = %v, want ErrListType", err)
		}
	})
}

func TestFromNativeOverflow(t *testing.T) {
	if _, err := FromNative(uint64(1) << 63); !errors.Is(err, ErrNumericRange) {
		t.Errorf("FromNative(huge uint64) error = %v, want ErrNumericRange", err)
	}
}
