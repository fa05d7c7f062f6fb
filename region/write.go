package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/klauspost/compress/zlib"

	"mcnbt/nbt"
)

// Save linearizes the archive into region-file bytes. Chunks are placed in
// the archive's iteration order starting at sector 2, zlib-compressed,
// each blob zero-padded to its sector boundary. The writer is strict: any
// failing chunk aborts the save.
func (a *Archive) Save() ([]byte, error) {
	type blob struct {
		slot int
		data []byte // header + compressed payload
	}

	slots := a.iterSlots()
	blobs := make([]blob, 0, len(slots))
	for _, i := range slots {
		d, err := a.GetChunk(i%Width, i/Width)
		if err != nil {
			return nil, fmt.Errorf("region: chunk (%d,%d): %w", i%Width, i/Width, err)
		}
		if d == nil {
			continue
		}
		raw, err := nbt.Write(d)
		if err != nil {
			return nil, fmt.Errorf("region: chunk (%d,%d): %w", i%Width, i/Width, err)
		}
		var cbuf bytes.Buffer
		zw := zlib.NewWriter(&cbuf)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("region: chunk (%d,%d): zlib: %w", i%Width, i/Width, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("region: chunk (%d,%d): zlib: %w", i%Width, i/Width, err)
		}

		b := make([]byte, chunkHeaderSize+cbuf.Len())
		binary.BigEndian.PutUint32(b, uint32(cbuf.Len()+1))
		b[4] = CompressionZlib
		copy(b[chunkHeaderSize:], cbuf.Bytes())
		blobs = append(blobs, blob{slot: i, data: b})
	}

	var locs [Slots]location
	next := uint32(2)
	for _, b := range blobs {
		count := uint32((len(b.data) + Sector - 1) / Sector)
		if count > 0xFF {
			return nil, fmt.Errorf("region: chunk (%d,%d): %w: %d sectors", b.slot%Width, b.slot/Width, ErrChunkTooLarge, count)
		}
		locs[b.slot] = location{offset: next, count: count}
		next += count
	}

	out := make([]byte, int64(next)*Sector)
	for i, l := range locs {
		if l.empty() {
			continue
		}
		binary.BigEndian.PutUint32(out[i*4:], l.offset<<8|l.count)
	}
	for _, b := range blobs {
		i := b.slot
		stamp := a.timestamps[i]
		if stamp == 0 {
			stamp = uint32(a.clock().Unix())
		}
		binary.BigEndian.PutUint32(out[Sector+i*4:], stamp)
		copy(out[int64(locs[i].offset)*Sector:], b.data)
	}
	return out, nil
}

// SaveFile writes the archive to disk. The target is replaced only after
// the whole file serialized successfully.
func (a *Archive) SaveFile(path string) error {
	data, err := a.Save()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("region: %w", err)
	}
	return nil
}
