// Package region implements the sector-addressed container that stores up
// to 1024 independently compressed NBT documents, the on-disk region file
// of Minecraft worlds. An archive can be loaded eagerly, lazily (chunks
// materialized on first access) or in bounded-parallel bulk batches.
package region

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"mcnbt/nbt"
)

const (
	// Sector is the allocation unit of a region file.
	Sector = 4096
	// Slots is the chunk capacity of one region file: 32 x 32.
	Slots = 1024
	// Width is the region side length in chunks.
	Width = 32

	chunkHeaderSize = 5
)

// Chunk payload compression codes.
const (
	CompressionGzip byte = 1
	CompressionZlib byte = 2
	CompressionNone byte = 3
)

// DefaultChunkConcurrency bounds parallel per-chunk work (async reads,
// eager-load decompression).
const DefaultChunkConcurrency = 10

// Decoder-level failures. Per-chunk occurrences surface as diagnostics on
// the archive, not as load errors.
var (
	ErrInvalidCompression = errors.New("invalid chunk compression")
	ErrSectorOutOfRange   = errors.New("sector out of range")
	ErrChunkTooLarge      = errors.New("chunk exceeds maximum sector count")
)

// Diagnostic records a per-chunk failure observed while reading.
type Diagnostic struct {
	X, Z    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("chunk (%d,%d): %s", d.X, d.Z, d.Message)
}

type location struct {
	offset uint32 // in sectors
	count  uint32
}

func (l location) empty() bool {
	return l.offset == 0 || l.count == 0
}

// Archive is an in-memory region file: up to 1024 chunk documents indexed
// by (x, z) in [0, 32)², with per-slot modification timestamps.
//
// Iteration order is observable: Save lays chunks out in it. For archives
// built in memory (and eager loads, which insert slots in ascending
// order) it is insertion order. A lazily loaded archive iterates its
// disk-backed slots in ascending order first, then slots set afterwards in
// insertion order; overwriting a disk-backed slot re-inserts it.
//
// An archive is not safe for concurrent mutation; GetChunkAsync on
// distinct coordinates is safe.
type Archive struct {
	order      []int
	chunks     map[int]*nbt.Document
	timestamps [Slots]uint32
	diags      []Diagnostic

	// lazy state: the raw file, the not-yet-overridden disk slots and the
	// cache of materialized chunks
	src       []byte
	locations [Slots]location
	cache     map[int]*nbt.Document
	mu        sync.Mutex
	sem       *semaphore.Weighted

	// test hook
	now func() time.Time
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{chunks: make(map[int]*nbt.Document)}
}

func (a *Archive) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// wrap maps any chunk coordinate into [0, 32) with a non-negative modulus,
// so callers may address chunks by world coordinate.
func wrap(v int) int {
	v %= Width
	if v < 0 {
		v += Width
	}
	return v
}

func slot(x, z int) int {
	return wrap(z)*Width + wrap(x)
}

// Diagnostics returns the per-chunk problems recorded while reading.
func (a *Archive) Diagnostics() []Diagnostic {
	return a.diags
}

// Lazy reports whether the archive still holds a byte source to
// materialize chunks from.
func (a *Archive) Lazy() bool {
	return a.src != nil
}

// iterSlots returns populated slots in the archive's iteration order.
func (a *Archive) iterSlots() []int {
	if a.src == nil {
		return a.order
	}
	out := make([]int, 0, len(a.order)+16)
	for i, l := range a.locations {
		if !l.empty() {
			out = append(out, i)
		}
	}
	return append(out, a.order...)
}

// Count returns the number of populated slots, materialized or not.
func (a *Archive) Count() int {
	return len(a.iterSlots())
}

// SetChunk stores a document at (x, z), wrapping coordinates, and stamps
// the slot with the current wall clock.
func (a *Archive) SetChunk(x, z int, d *nbt.Document) {
	i := slot(x, z)
	if a.chunks == nil {
		a.chunks = make(map[int]*nbt.Document)
	}
	if a.src != nil {
		// the slot now lives in memory; drop the disk reference and any
		// cached materialization
		a.locations[i] = location{}
		a.mu.Lock()
		delete(a.cache, i)
		a.mu.Unlock()
	}
	if _, ok := a.chunks[i]; !ok {
		a.order = append(a.order, i)
	}
	a.chunks[i] = d
	a.timestamps[i] = uint32(a.clock().Unix())
}

// RemoveChunk deletes the chunk at (x, z) and clears its timestamp.
func (a *Archive) RemoveChunk(x, z int) bool {
	i := slot(x, z)
	_, ok := a.chunks[i]
	if ok {
		delete(a.chunks, i)
		for j, s := range a.order {
			if s == i {
				a.order = append(a.order[:j], a.order[j+1:]...)
				break
			}
		}
	}
	if a.src != nil {
		if !a.locations[i].empty() {
			ok = true
		}
		a.locations[i] = location{}
		a.mu.Lock()
		delete(a.cache, i)
		a.mu.Unlock()
	}
	if ok {
		a.timestamps[i] = 0
	}
	return ok
}

// Timestamp returns the stored modification time of slot (x, z) as Unix
// seconds; zero means never written.
func (a *Archive) Timestamp(x, z int) uint32 {
	return a.timestamps[slot(x, z)]
}

// SetTimestamp overrides the stored modification time of slot (x, z).
func (a *Archive) SetTimestamp(x, z int, sec uint32) {
	a.timestamps[slot(x, z)] = sec
}

// ChunkEntry is one populated slot reported by AllChunks.
type ChunkEntry struct {
	X, Z int
	Doc  *nbt.Document
}

// AllChunks returns the stored chunks in iteration order, materializing
// lazy slots. Materialization failures leave diagnostics and skip the
// slot.
func (a *Archive) AllChunks() []ChunkEntry {
	slots := a.iterSlots()
	out := make([]ChunkEntry, 0, len(slots))
	for _, i := range slots {
		x, z := i%Width, i/Width
		d, err := a.GetChunk(x, z)
		if err != nil || d == nil {
			continue
		}
		out = append(out, ChunkEntry{X: x, Z: z, Doc: d})
	}
	return out
}

// Bounds reports the minimum and maximum populated chunk coordinates.
// ok is false for an empty archive.
func (a *Archive) Bounds() (minX, minZ, maxX, maxZ int, ok bool) {
	first := true
	for _, i := range a.iterSlots() {
		x, z := i%Width, i/Width
		if first {
			minX, maxX, minZ, maxZ = x, x, z, z
			first = false
			continue
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minZ, maxZ = min(minZ, z), max(maxZ, z)
	}
	return minX, minZ, maxX, maxZ, !first
}

// Extract returns the tag at the given dot path inside chunk (x, z).
func (a *Archive) Extract(x, z int, path string) (nbt.Tag, bool) {
	d, err := a.GetChunk(x, z)
	if err != nil || d == nil {
		return nil, false
	}
	return d.Get(path)
}
