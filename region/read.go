package region

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/sync/semaphore"

	"mcnbt/nbt"
)

func parseHeaders(data []byte) ([Slots]location, [Slots]uint32, error) {
	var locs [Slots]location
	var stamps [Slots]uint32
	if len(data) < 2*Sector {
		return locs, stamps, fmt.Errorf("region: file of %d bytes has no header sectors", len(data))
	}
	for i := range Slots {
		v := binary.BigEndian.Uint32(data[i*4:])
		locs[i] = location{offset: v >> 8, count: v & 0xFF}
		stamps[i] = binary.BigEndian.Uint32(data[Sector+i*4:])
	}
	return locs, stamps, nil
}

// chunkData extracts and decompresses the blob of one populated slot.
func chunkData(data []byte, l location) ([]byte, error) {
	start := int64(l.offset) * Sector
	end := start + int64(l.count)*Sector
	if start < 2*Sector || end > int64(len(data)) {
		return nil, fmt.Errorf("%w: sectors [%d, %d) of %d-byte file", ErrSectorOutOfRange, l.offset, l.offset+l.count, len(data))
	}
	blob := data[start:end]
	if len(blob) < chunkHeaderSize {
		return nil, fmt.Errorf("%w: blob shorter than header", ErrSectorOutOfRange)
	}
	length := binary.BigEndian.Uint32(blob)
	scheme := blob[4]
	if length == 0 || int64(length)+4 > int64(len(blob)) {
		return nil, fmt.Errorf("%w: payload length %d exceeds %d allocated bytes", ErrSectorOutOfRange, length, len(blob))
	}
	payload := blob[chunkHeaderSize : 4+length]

	switch scheme {
	case CompressionGzip:
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompressionNone:
		return payload, nil
	default:
		return nil, fmt.Errorf("%w: code %d", ErrInvalidCompression, scheme)
	}
}

func readChunk(data []byte, l location) (*nbt.Document, error) {
	raw, err := chunkData(data, l)
	if err != nil {
		return nil, err
	}
	d, _, err := nbt.Read(raw)
	return d, err
}

// Load parses a region file eagerly: every populated slot is decompressed
// and parsed before Load returns, in ascending slot order. The reader is
// tolerant: a bad chunk becomes a diagnostic, not a failure. Per-chunk
// work runs with bounded parallelism; results are installed only after all
// workers finish.
func Load(ctx context.Context, data []byte) (*Archive, error) {
	locs, stamps, err := parseHeaders(data)
	if err != nil {
		return nil, err
	}

	type result struct {
		slot int
		doc  *nbt.Document
		err  error
	}

	populated := make([]int, 0, Slots)
	for i, l := range locs {
		if !l.empty() {
			populated = append(populated, i)
		}
	}

	results := make([]result, len(populated))
	sem := semaphore.NewWeighted(DefaultChunkConcurrency)
	var wg sync.WaitGroup
	for n, i := range populated {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(n, i int) {
			defer wg.Done()
			defer sem.Release(1)
			d, err := readChunk(data, locs[i])
			results[n] = result{slot: i, doc: d, err: err}
		}(n, i)
	}
	wg.Wait()

	a := New()
	a.timestamps = stamps
	for _, r := range results {
		x, z := r.slot%Width, r.slot/Width
		if r.err != nil {
			a.diags = append(a.diags, Diagnostic{X: x, Z: z, Message: r.err.Error()})
			continue
		}
		a.order = append(a.order, r.slot)
		a.chunks[r.slot] = r.doc
	}
	return a, nil
}

// LoadLazy retains the raw bytes and the parsed headers only; chunks are
// materialized and cached on first access.
func LoadLazy(data []byte) (*Archive, error) {
	locs, stamps, err := parseHeaders(data)
	if err != nil {
		return nil, err
	}
	a := New()
	a.src = data
	a.locations = locs
	a.timestamps = stamps
	a.cache = make(map[int]*nbt.Document)
	a.sem = semaphore.NewWeighted(DefaultChunkConcurrency)
	return a, nil
}

// LoadFile reads and eagerly parses a region file from disk.
func LoadFile(ctx context.Context, path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("region: %w", err)
	}
	return Load(ctx, data)
}

// GetChunk returns the document at (x, z), wrapping coordinates, or
// (nil, nil) for an empty slot. On a lazy archive the first access
// materializes and caches the chunk; a failed materialization records a
// diagnostic and returns the error.
func (a *Archive) GetChunk(x, z int) (*nbt.Document, error) {
	i := slot(x, z)
	if d, ok := a.chunks[i]; ok {
		return d, nil
	}
	if a.src == nil || a.locations[i].empty() {
		return nil, nil
	}

	a.mu.Lock()
	if d, ok := a.cache[i]; ok {
		a.mu.Unlock()
		return d, nil
	}
	a.mu.Unlock()

	d, err := readChunk(a.src, a.locations[i])
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.diags = append(a.diags, Diagnostic{X: wrap(x), Z: wrap(z), Message: err.Error()})
		return nil, err
	}
	if prev, ok := a.cache[i]; ok {
		// another goroutine won the race; keep its instance
		return prev, nil
	}
	a.cache[i] = d
	return d, nil
}

// GetChunkAsync is GetChunk behind the archive's concurrency bound, for
// concurrent access to distinct coordinates.
func (a *Archive) GetChunkAsync(ctx context.Context, x, z int) (*nbt.Document, error) {
	if a.sem == nil {
		return a.GetChunk(x, z)
	}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)
	return a.GetChunk(x, z)
}

// ClearCache drops all materialized chunks of a lazy archive; the byte
// source remains and chunks materialize again on demand.
func (a *Archive) ClearCache() {
	if a.src == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = make(map[int]*nbt.Document)
}
