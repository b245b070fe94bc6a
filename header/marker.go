// Package header implements the first byte of every encoded lilliput value:
// the marker taxonomy that identifies the value kind, and the per-kind header
// layouts packing sub-variant metadata into the remaining bits.
//
// The kind of a header byte is determined by the position of its highest set
// bit. Four kinds (Int, String, Seq, Map) carry a compact and an extended
// sub-variant in the same byte; the compact form inlines a small value or
// length, the extended form declares the width of follow-on length bytes.
package header

import (
	"math/bits"

	"github.com/arloliu/lilliput/errs"
)

// Marker identifies the kind of an encoded value by its header byte bit
// pattern. The marker value is the byte with only the type bit set.
type Marker uint8

const (
	MarkerReserved Marker = 0b00000000
	MarkerNull     Marker = 0b00000001
	MarkerBool     Marker = 0b00000010
	MarkerBytes    Marker = 0b00000100
	MarkerFloat    Marker = 0b00001000
	MarkerMap      Marker = 0b00010000
	MarkerSeq      Marker = 0b00100000
	MarkerString   Marker = 0b01000000
	MarkerInt      Marker = 0b10000000
)

// markerByLeadingZeros maps bits.LeadingZeros8 of a header byte to its marker.
// The lookup keeps kind detection branchless on the decode hot path.
var markerByLeadingZeros = [9]Marker{
	MarkerInt,
	MarkerString,
	MarkerSeq,
	MarkerMap,
	MarkerFloat,
	MarkerBytes,
	MarkerBool,
	MarkerNull,
	MarkerReserved,
}

// Detect returns the marker of the given header byte.
func Detect(b byte) Marker {
	return markerByLeadingZeros[bits.LeadingZeros8(b)]
}

// Validate checks that b carries this marker, returning an invalid-type error
// naming the expected and detected kinds otherwise.
func (m Marker) Validate(b byte) error {
	detected := Detect(b)
	if detected != m {
		return errs.InvalidType(m.String(), detected.String(), errs.NoPos)
	}

	return nil
}

func (m Marker) String() string {
	switch m {
	case MarkerInt:
		return "integer"
	case MarkerString:
		return "string"
	case MarkerSeq:
		return "sequence"
	case MarkerMap:
		return "map"
	case MarkerFloat:
		return "float"
	case MarkerBytes:
		return "byte sequence"
	case MarkerBool:
		return "bool"
	case MarkerNull:
		return "null"
	case MarkerReserved:
		return "reserved"
	default:
		return "invalid"
	}
}
