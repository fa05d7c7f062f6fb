package common

import "testing"

func TestParseOutputFmt(t *testing.T) {
	for _, name := range OutputFmtNames() {
		f, err := ParseOutputFmt(name)
		if err != nil {
			t.Errorf("ParseOutputFmt(%q) error = %v", name, err)
		}
		if f.String() != name {
			t.Errorf("round trip of %q gave %q", name, f.String())
		}
		if f.Ext() == "" {
			t.Errorf("%q has no extension", name)
		}
	}
	if _, err := ParseOutputFmt("epub"); err == nil {
		t.Error("ParseOutputFmt accepted an unknown format")
	}
}

func TestCompressed(t *testing.T) {
	if !OutputFmtDat.Compressed() {
		t.Error("dat is not compressed")
	}
	if OutputFmtNbt.Compressed() {
		t.Error("nbt is compressed")
	}
}
