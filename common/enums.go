// The only reason this package exists is because both the conversion
// driver and the CLI need the output format enumeration and I do not want
// the driver to depend on command wiring. So enums live in their own
// package.
package common

//go:generate go run github.com/abice/go-enum@latest -f=$GOFILE

// Specification of requested output type.
// ENUM(nbt, dat, snbt, json)
type OutputFmt int

// Ext returns the conventional file extension for the format.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtNbt:
		return ".nbt"
	case OutputFmtDat:
		return ".dat"
	case OutputFmtSnbt:
		return ".snbt"
	case OutputFmtJSON:
		return ".json"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Compressed reports whether the format is a gzip-wrapped binary.
func (o OutputFmt) Compressed() bool {
	return o == OutputFmtDat
}
