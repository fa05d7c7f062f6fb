package region

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mcnbt/nbt"
)

// The JSON view of an archive lists populated slots in iteration order;
// each entry carries coordinates, the slot timestamp and the chunk's
// document view.

type chunkJSON struct {
	X         int             `json:"x"`
	Z         int             `json:"z"`
	Timestamp uint32          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type archiveJSON struct {
	Chunks []chunkJSON `json:"chunks"`
}

// ToJSON renders the archive's JSON view, materializing lazy chunks.
func (a *Archive) ToJSON() ([]byte, error) {
	view := archiveJSON{Chunks: make([]chunkJSON, 0, a.Count())}
	for _, e := range a.AllChunks() {
		data, err := nbt.ToJSON(e.Doc)
		if err != nil {
			return nil, fmt.Errorf("region: chunk (%d,%d): %w", e.X, e.Z, err)
		}
		view.Chunks = append(view.Chunks, chunkJSON{
			X:         e.X,
			Z:         e.Z,
			Timestamp: a.Timestamp(e.X, e.Z),
			Data:      data,
		})
	}
	return json.Marshal(view)
}

// FromJSON rebuilds an archive from its JSON view. Chunk documents go
// through the NBT JSON ingest, so explicit type envelopes are honored and
// everything else is inferred.
func FromJSON(data []byte) (*Archive, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var view archiveJSON
	if err := dec.Decode(&view); err != nil {
		return nil, fmt.Errorf("region: json: %w", err)
	}
	a := New()
	for _, c := range view.Chunks {
		d, err := nbt.FromJSON(c.Data)
		if err != nil {
			return nil, fmt.Errorf("region: chunk (%d,%d): %w", c.X, c.Z, err)
		}
		a.SetChunk(c.X, c.Z, d)
		if c.Timestamp != 0 {
			a.SetTimestamp(c.X, c.Z, c.Timestamp)
		}
	}
	return a, nil
}
