package nbt

import (
	"errors"
	"strings"
	"testing"
)

func TestToJSONView(t *testing.T) {
	root := NewCompound()
	root.Set("n", Long(9223372036854775807))
	root.Set("b", Byte(5))
	root.Set("s", String("x"))
	root.Set("times", LongArray{1, -2})
	out, err := ToJSON(&Document{Root: root})
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	want := `{"name":"","type":"compound","value":{"n":"9223372036854775807","b":5,"s":"x","times":["1","-2"]}}`
	if string(out) != want {
		t.Errorf("ToJSON() = %s\nwant      %s", out, want)
	}
}

func TestFromJSONWithTypeHint(t *testing.T) {
	in := `{ "type":"compound", "value": { "n": 9223372036854775807 } }`
	d, err := FromJSON([]byte(in))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	n, ok := d.Get("n")
	if !ok {
		t.Fatal("entry n is missing")
	}
	if !Equal(n, Long(9223372036854775807)) {
		t.Errorf("n = %v (%s), want Long max", n, n.Type())
	}

	// and the view of that document quotes the long
	out, err := ToJSON(d)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(out), `"n":"9223372036854775807"`) {
		t.Errorf("view does not quote the long: %s", out)
	}
}

func TestFromJSONInference(t *testing.T) {
	in := `{"a": 5, "big": 40000, "f": 1.5, "s": "hi", "flag": true, "l": [1, 2], "nested": {"x": null}}`
	d, err := FromJSON([]byte(in))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	want := map[string]Tag{
		"a":    Byte(5),
		"big":  Int(40000),
		"f":    Double(1.5),
		"s":    String("hi"),
		"flag": Byte(1),
	}
	for k, w := range want {
		got, ok := d.Get(k)
		if !ok {
			t.Errorf("entry %q missing", k)
			continue
		}
		if !Equal(got, w) {
			t.Errorf("entry %q = %v (%s), want %v (%s)", k, got, got.Type(), w, w.Type())
		}
	}

	// member order is preserved
	keys := d.Root.(*Compound).Keys()
	wantOrder := []string{"a", "big", "f", "s", "flag", "l", "nested"}
	for i, k := range wantOrder {
		if keys[i] != k {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestFromJSONNestedEnvelopes(t *testing.T) {
	in := `{"type":"compound","value":{
		"pos": {"type":"intarray","value":[1,2,3]},
		"big": {"type":"long","value":5},
		"raw": {"type":"bytearray","value":[0,127,255]}
	}}`
	d, err := FromJSON([]byte(in))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if got, _ := d.Get("pos"); !Equal(got, IntArray{1, 2, 3}) {
		t.Errorf("pos = %v", got)
	}
	if got, _ := d.Get("big"); !Equal(got, Long(5)) {
		t.Errorf("big = %v (%s)", got, got.Type())
	}
	if got, _ := d.Get("raw"); !Equal(got, ByteArray{0, 127, 255}) {
		t.Errorf("raw = %v", got)
	}
}

func TestFromJSONHintOutOfRange(t *testing.T) {
	in := `{"type":"byte","value":300}`
	if _, err := FromJSON([]byte(in)); !errors.Is(err, ErrNumericRange) {
		t.Errorf("FromJSON() error = %v, want ErrNumericRange", err)
	}
}

func TestJSONRoundTripStructure(t *testing.T) {
	d := bigDoc()
	view, err := ToJSON(d)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	back, err := FromJSON(view)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	// structure survives modulo documented losses: exact integer widths,
	// the empty list element type and Long-as-string
	for _, path := range []string{"name", "meta.pi", "spawn", "mask"} {
		if _, ok := back.Get(path); !ok {
			t.Errorf("path %q lost in JSON round trip", path)
		}
	}
	if got, _ := back.Get("seed"); got.Type() != TypeString {
		// longs come back as strings without a hint; documented
		t.Errorf("seed = %s, want String (view quotes longs)", got.Type())
	}
	if got, _ := back.Get("positions"); len(got.(*List).Items) != 3 {
		t.Error("positions list lost items")
	}
}
