package nbt

import (
	"bytes"
	"errors"
	"testing"
)

func TestMUTF8RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"ascii", "Hello"},
		{"empty", ""},
		{"nul", "a\x00b"},
		{"two byte", "naïve"},
		{"three byte", "木"},
		{"supplementary", "a\U0001F600b"}, // CESU-8 surrogate pair on the wire
		{"mixed", "x\x00ü木\U0001D11Ey"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := appendMUTF8(nil, tc.in)
			if len(enc) != mutf8Len(tc.in) {
				t.Errorf("mutf8Len = %d, encoded %d bytes", mutf8Len(tc.in), len(enc))
			}
			out, err := decodeMUTF8(enc)
			if err != nil {
				t.Fatalf("decodeMUTF8() error = %v", err)
			}
			if out != tc.in {
				t.Errorf("round trip = %q, want %q", out, tc.in)
			}
		})
	}
}

func TestMUTF8EncodesNULAsTwoBytes(t *testing.T) {
	enc := appendMUTF8(nil, "\x00")
	if !bytes.Equal(enc, []byte{0xC0, 0x80}) {
		t.Errorf("NUL encodes as % X, want C0 80", enc)
	}
}

func TestMUTF8NeverEmitsFourByteSequences(t *testing.T) {
	enc := appendMUTF8(nil, "\U0001F600")
	if len(enc) != 6 {
		t.Fatalf("supplementary rune encodes as %d bytes, want 6", len(enc))
	}
	for _, b := range enc {
		if b&0xF8 == 0xF0 {
			t.Errorf("found four-byte lead %#02x in % X", b, enc)
		}
	}
}

func TestMUTF8Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
	}{
		{"bare continuation", []byte{0x80}},
		{"four byte lead", []byte{0xF0, 0x9F, 0x98, 0x80}},
		{"overlong", []byte{0xC1, 0x81}},
		{"truncated pair", []byte{0xE0, 0xA0}},
		{"lone high surrogate", []byte{0xED, 0xA0, 0xBD}},
		{"lone low surrogate", []byte{0xED, 0xB8, 0x80}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeMUTF8(tc.in); !errors.Is(err, ErrInvalidString) {
				t.Errorf("decodeMUTF8(% X) error = %v, want ErrInvalidString", tc.in, err)
			}
		})
	}
}
