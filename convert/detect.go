package convert

import (
	"archive/zip"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"unicode"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// Kind is the structurally detected format of an input file. Detection
// never looks at file extensions.
type Kind int

const (
	KindUnknown Kind = iota
	KindNBT
	KindNBTGzip
	KindNBTZlib
	KindRegion
	KindSNBT
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindNBT:
		return "nbt"
	case KindNBTGzip:
		return "nbt/gzip"
	case KindNBTZlib:
		return "nbt/zlib"
	case KindRegion:
		return "region"
	case KindSNBT:
		return "snbt"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

var (
	typeNBT    = filetype.NewType("nbt", "application/x-minecraft-nbt")
	typeRegion = filetype.NewType("mca", "application/x-minecraft-region")
	typeZlib   = filetype.NewType("zz", "application/zlib")
)

func init() {
	filetype.AddMatcher(typeNBT, matchNBT)
	filetype.AddMatcher(typeRegion, matchRegion)
	filetype.AddMatcher(typeZlib, matchZlib)
}

// matchNBT accepts a buffer that starts like a named compound: id 0x0a
// and a name length that stays within the buffer.
func matchNBT(buf []byte) bool {
	if len(buf) < 3 || buf[0] != 0x0A {
		return false
	}
	n := int(binary.BigEndian.Uint16(buf[1:]))
	return n <= len(buf)-3
}

// matchZlib accepts the common zlib stream headers.
func matchZlib(buf []byte) bool {
	if len(buf) < 2 || buf[0] != 0x78 {
		return false
	}
	switch buf[1] {
	case 0x01, 0x5E, 0x9C, 0xDA:
		return true
	}
	return false
}

// matchRegion accepts a plausible location table: the file has both header
// sectors and every populated entry points past them and ends inside the
// file.
func matchRegion(buf []byte) bool {
	if len(buf) < 2*4096 {
		return false
	}
	seen := false
	for i := 0; i+4 <= len(buf) && i < 4096; i += 4 {
		v := binary.BigEndian.Uint32(buf[i:])
		offset, count := v>>8, v&0xFF
		if offset == 0 && count == 0 {
			continue
		}
		if offset < 2 {
			return false
		}
		if (int64(offset)+int64(count))*4096 > int64(len(buf)) {
			return false
		}
		seen = true
	}
	return seen
}

// DetectKind classifies a buffer. Binary forms are recognized by magic
// via filetype matchers; text input is JSON when it parses as JSON and
// SNBT otherwise.
func DetectKind(data []byte) Kind {
	switch {
	case filetype.IsType(data, matchers.TypeGz):
		return KindNBTGzip
	case filetype.IsType(data, typeZlib):
		return KindNBTZlib
	case filetype.IsType(data, typeNBT):
		return KindNBT
	case filetype.IsType(data, typeRegion):
		return KindRegion
	}
	for _, c := range data {
		if unicode.IsSpace(rune(c)) {
			continue
		}
		if c == '{' || c == '[' {
			if json.Valid(data) {
				return KindJSON
			}
			return KindSNBT
		}
		break
	}
	return KindUnknown
}

// isArchiveFile reports whether path is a readable zip archive. A plain
// file that merely carries a .zip name is not an archive.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false, err
	}
	if !filetype.IsType(head[:n], matchers.TypeZip) {
		return false, nil
	}
	// the header may lie; make sure the central directory is usable
	r, err := zip.OpenReader(path)
	if err != nil {
		return false, nil
	}
	r.Close()
	return true, nil
}
