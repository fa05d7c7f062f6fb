package region

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"mcnbt/nbt"
)

func chunkDoc(tag string) *nbt.Document {
	root := nbt.NewCompound()
	root.Set("id", nbt.String(tag))
	root.Set("n", nbt.Int(7))
	return &nbt.Document{Root: root}
}

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := New()
	a.now = fixedClock(1700000000)
	a.SetChunk(0, 0, chunkDoc("origin"))
	a.SetChunk(5, 9, chunkDoc("far"))

	data, err := a.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(data)%Sector != 0 {
		t.Errorf("file length %d is not sector aligned", len(data))
	}

	back, err := Load(context.Background(), data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diags := back.Diagnostics(); len(diags) != 0 {
		t.Fatalf("Load() diagnostics = %v", diags)
	}
	if back.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", back.Count())
	}

	for _, pos := range [][2]int{{0, 0}, {5, 9}} {
		want, _ := a.GetChunk(pos[0], pos[1])
		got, err := back.GetChunk(pos[0], pos[1])
		if err != nil {
			t.Fatalf("GetChunk(%v) error = %v", pos, err)
		}
		if got == nil || !got.Equal(want) {
			t.Errorf("chunk %v mismatch after round trip", pos)
		}
		if back.Timestamp(pos[0], pos[1]) != 1700000000 {
			t.Errorf("timestamp %v = %d, want 1700000000", pos, back.Timestamp(pos[0], pos[1]))
		}
	}

	// all other location entries are zero
	for i := range Slots {
		x, z := i%Width, i/Width
		if (x == 0 && z == 0) || (x == 5 && z == 9) {
			continue
		}
		if v := binary.BigEndian.Uint32(data[i*4:]); v != 0 {
			t.Errorf("location[%d] = %#08x, want 0", i, v)
		}
	}
}

func TestSaveLayout(t *testing.T) {
	a := New()
	a.now = fixedClock(1700000000)
	// insertion order deliberately differs from slot order
	a.SetChunk(9, 3, chunkDoc("first"))
	a.SetChunk(1, 0, chunkDoc("second"))
	a.SetChunk(31, 31, chunkDoc("third"))

	data, err := a.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	type loc struct{ offset, count uint32 }
	read := func(x, z int) loc {
		v := binary.BigEndian.Uint32(data[(z*Width+x)*4:])
		return loc{offset: v >> 8, count: v & 0xFF}
	}

	first, second, third := read(9, 3), read(1, 0), read(31, 31)

	// chunks are laid out contiguously from sector 2 in insertion order
	if first.offset != 2 {
		t.Errorf("first chunk at sector %d, want 2", first.offset)
	}
	if second.offset != first.offset+first.count {
		t.Errorf("second chunk at sector %d, want %d", second.offset, first.offset+first.count)
	}
	if third.offset != second.offset+second.count {
		t.Errorf("third chunk at sector %d, want %d", third.offset, second.offset+second.count)
	}

	for _, l := range []loc{first, second, third} {
		start := int(l.offset) * Sector
		length := binary.BigEndian.Uint32(data[start:])
		if l.count != uint32((int(length)+4+Sector-1)/Sector) {
			t.Errorf("sector count %d does not match blob length %d", l.count, length)
		}
		if data[start+4] != CompressionZlib {
			t.Errorf("compression code = %d, want zlib", data[start+4])
		}
		// padding between payload end and sector end is zero
		for i := start + 4 + int(length); i < start+int(l.count)*Sector; i++ {
			if data[i] != 0 {
				t.Fatalf("padding byte at %d = %#02x, want 0", i, data[i])
			}
		}
	}
}

func TestCoordinateWrap(t *testing.T) {
	a := New()
	a.SetChunk(0, 0, chunkDoc("origin"))
	a.SetChunk(-3, 70, chunkDoc("wrapped")) // lands at (29, 6)

	for _, pos := range [][2]int{{0, 0}, {32, 32}, {-32, 64}, {320, -320}} {
		d, err := a.GetChunk(pos[0], pos[1])
		if err != nil {
			t.Fatalf("GetChunk(%v) error = %v", pos, err)
		}
		if d == nil {
			t.Errorf("GetChunk(%v) = nil, wrap failed", pos)
		}
	}
	if d, _ := a.GetChunk(29, 6); d == nil {
		t.Error("negative coordinate did not wrap to (29, 6)")
	}
}

func TestSetChunkTimestamps(t *testing.T) {
	a := New()
	before := time.Now().Unix()
	a.SetChunk(4, 4, chunkDoc("x"))
	after := time.Now().Unix()

	ts := int64(a.Timestamp(4, 4))
	if ts < before || ts > after {
		t.Errorf("timestamp %d outside [%d, %d]", ts, before, after)
	}
}

func TestRemoveChunk(t *testing.T) {
	a := New()
	a.SetChunk(1, 1, chunkDoc("x"))
	if !a.RemoveChunk(33, 33) { // wraps to (1, 1)
		t.Error("RemoveChunk() of populated slot returned false")
	}
	if a.Count() != 0 {
		t.Errorf("Count() = %d after removal", a.Count())
	}
	if a.RemoveChunk(1, 1) {
		t.Error("RemoveChunk() of empty slot returned true")
	}
	if a.Timestamp(1, 1) != 0 {
		t.Error("timestamp survives removal")
	}
}

func TestBoundsAndExtract(t *testing.T) {
	a := New()
	if _, _, _, _, ok := a.Bounds(); ok {
		t.Error("Bounds() of empty archive reported ok")
	}
	a.SetChunk(3, 7, chunkDoc("a"))
	a.SetChunk(20, 2, chunkDoc("b"))

	minX, minZ, maxX, maxZ, ok := a.Bounds()
	if !ok || minX != 3 || maxX != 20 || minZ != 2 || maxZ != 7 {
		t.Errorf("Bounds() = (%d,%d)-(%d,%d), %v", minX, minZ, maxX, maxZ, ok)
	}

	if v, ok := a.Extract(3, 7, "id"); !ok || !nbt.Equal(v, nbt.String("a")) {
		t.Errorf("Extract() = %v, %v", v, ok)
	}
	if _, ok := a.Extract(0, 0, "id"); ok {
		t.Error("Extract() from empty slot reported ok")
	}
}

func TestLoadTolerance(t *testing.T) {
	a := New()
	a.now = fixedClock(1700000000)
	a.SetChunk(0, 0, chunkDoc("good"))
	a.SetChunk(1, 0, chunkDoc("bad"))
	data, err := a.Save()
	if err != nil {
		t.Fatal(err)
	}

	// corrupt the second chunk's compressed payload
	v := binary.BigEndian.Uint32(data[4:]) // location of (1, 0)
	start := int(v>>8) * Sector
	for i := start + chunkHeaderSize; i < start+chunkHeaderSize+16; i++ {
		data[i] ^= 0xFF
	}

	back, err := Load(context.Background(), data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, _ := back.GetChunk(0, 0); got == nil {
		t.Error("good chunk was dropped")
	}
	diags := back.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("Diagnostics() = %v, want one entry", diags)
	}
	if diags[0].X != 1 || diags[0].Z != 0 {
		t.Errorf("diagnostic at (%d,%d), want (1,0)", diags[0].X, diags[0].Z)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	a := New()
	a.now = fixedClock(1700000000)
	a.SetChunk(2, 3, chunkDoc("x"))

	view, err := a.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	back, err := FromJSON(view)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if back.Count() != 1 {
		t.Fatalf("Count() = %d", back.Count())
	}
	if back.Timestamp(2, 3) != 1700000000 {
		t.Errorf("timestamp = %d", back.Timestamp(2, 3))
	}
	if v, ok := back.Extract(2, 3, "id"); !ok || !nbt.Equal(v, nbt.String("x")) {
		t.Errorf("chunk content = %v, %v", v, ok)
	}
}
