package header

import "github.com/arloliu/lilliput/numpack"

// Map header layout:
//
//	compact:  0b0001_1LLL  L = 3-bit entry count, encoded key/value pairs follow
//	extended: 0b0001_0WWW  W = width of the length field in bytes, minus 1
const (
	mapTypeBits = 0b00010000

	mapCompactVariantBit = 0b00001000

	// MapCompactMaxLen is the largest entry count the compact map form can
	// carry inline.
	MapCompactMaxLen = 0b00000111

	mapCompactLenBits    = 0b00000111
	mapExtendedWidthBits = 0b00000111
)

// MapHeader describes the header byte of an encoded map.
type MapHeader struct {
	compact  bool
	len      uint8 // compact entry count, 0..7
	lenWidth uint8 // extended length-field width, 1..8
}

// CompactMap builds a compact map header carrying the entry count inline.
// Counts above MapCompactMaxLen are masked off.
func CompactMap(length uint8) MapHeader {
	return MapHeader{compact: true, len: length & mapCompactLenBits}
}

// ExtendedMap builds an extended map header declaring a length field of
// lenWidth bytes, 1 through 8.
func ExtendedMap(lenWidth uint8) MapHeader {
	return MapHeader{lenWidth: (lenWidth-1)&mapExtendedWidthBits + 1}
}

// OptimalMap picks the compact form when the count fits, else the minimal
// extended length width.
func OptimalMap(length int) MapHeader {
	if length <= MapCompactMaxLen {
		return CompactMap(uint8(length))
	}

	return ExtendedMap(uint8(numpack.OptimalWidth(uint64(length))))
}

// NativeMap always uses the extended form with a native {1,2,4,8} length width.
func NativeMap(length int) MapHeader {
	return ExtendedMap(uint8(numpack.NativeWidth(uint64(length))))
}

// VerbatimMap always uses the extended form with a full 8-byte length.
func VerbatimMap() MapHeader {
	return ExtendedMap(8)
}

// Marker returns MarkerMap.
func (h MapHeader) Marker() Marker {
	return MarkerMap
}

// IsCompact reports whether the entry count lives in the header byte itself.
func (h MapHeader) IsCompact() bool {
	return h.compact
}

// CompactLen returns the inline entry count of a compact header.
func (h MapHeader) CompactLen() int {
	return int(h.len)
}

// LenWidth returns the length-field width in bytes of an extended header, or
// 0 for a compact one.
func (h MapHeader) LenWidth() int {
	if h.compact {
		return 0
	}

	return int(h.lenWidth)
}

// Encode returns the header byte.
func (h MapHeader) Encode() byte {
	b := byte(mapTypeBits)

	if h.compact {
		b |= mapCompactVariantBit
		b |= h.len & mapCompactLenBits
	} else {
		b |= (h.lenWidth - 1) & mapExtendedWidthBits
	}

	return b
}

// DecodeMap interprets b as a map header.
func DecodeMap(b byte) (MapHeader, error) {
	if err := MarkerMap.Validate(b); err != nil {
		return MapHeader{}, err
	}

	if b&mapCompactVariantBit != 0 {
		return MapHeader{compact: true, len: b & mapCompactLenBits}, nil
	}

	return MapHeader{lenWidth: b&mapExtendedWidthBits + 1}, nil
}
