package nbt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// ReadCompressed parses a gzip-wrapped document (the on-disk .dat form).
func ReadCompressed(data []byte) (*Document, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("nbt: gzip: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("nbt: gzip: %w", err)
	}
	d, _, err := Read(raw)
	return d, err
}

// WriteCompressed serializes the document and wraps it in a gzip stream.
func WriteCompressed(d *Document) ([]byte, error) {
	raw, err := Write(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("nbt: gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("nbt: gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadAuto dispatches on the stream magic: gzip and zlib wrappers are
// unwrapped, anything else is treated as a raw document. Detection is
// structural only.
func ReadAuto(data []byte) (*Document, error) {
	switch {
	case len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B:
		return ReadCompressed(data)
	case len(data) >= 2 && data[0] == 0x78:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("nbt: zlib: %w", err)
		}
		defer zr.Close()
		raw, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("nbt: zlib: %w", err)
		}
		d, _, err := Read(raw)
		return d, err
	default:
		d, _, err := Read(data)
		return d, err
	}
}
