package header

import "github.com/arloliu/lilliput/numpack"

// String header layout:
//
//	compact:  0b011LLLLL  L = 5-bit byte length, UTF-8 bytes follow
//	extended: 0b01000WWW  W = width of the length field in bytes, minus 1;
//	                      W+1 big-endian length bytes follow, then the bytes
const (
	stringTypeBits = 0b01000000

	stringCompactVariantBit = 0b00100000

	// StringCompactMaxLen is the largest length the compact string form can
	// carry inline.
	StringCompactMaxLen = 0b00011111

	stringCompactLenBits    = 0b00011111
	stringExtendedWidthBits = 0b00000111
)

// StringHeader describes the header byte of an encoded string.
type StringHeader struct {
	compact  bool
	len      uint8 // compact byte length, 0..31
	lenWidth uint8 // extended length-field width, 1..8
}

// CompactString builds a compact string header carrying length inline.
// Lengths above StringCompactMaxLen are masked off.
func CompactString(length uint8) StringHeader {
	return StringHeader{compact: true, len: length & stringCompactLenBits}
}

// ExtendedString builds an extended string header declaring a length field of
// lenWidth bytes, 1 through 8.
func ExtendedString(lenWidth uint8) StringHeader {
	return StringHeader{lenWidth: (lenWidth-1)&stringExtendedWidthBits + 1}
}

// OptimalString picks the compact form when length fits, else the minimal
// extended length width.
func OptimalString(length int) StringHeader {
	if length <= StringCompactMaxLen {
		return CompactString(uint8(length))
	}

	return ExtendedString(uint8(numpack.OptimalWidth(uint64(length))))
}

// NativeString always uses the extended form with a native {1,2,4,8} length
// width.
func NativeString(length int) StringHeader {
	return ExtendedString(uint8(numpack.NativeWidth(uint64(length))))
}

// VerbatimString always uses the extended form with a full 8-byte length.
func VerbatimString() StringHeader {
	return ExtendedString(8)
}

// Marker returns MarkerString.
func (h StringHeader) Marker() Marker {
	return MarkerString
}

// IsCompact reports whether the length lives in the header byte itself.
func (h StringHeader) IsCompact() bool {
	return h.compact
}

// CompactLen returns the inline length of a compact header.
func (h StringHeader) CompactLen() int {
	return int(h.len)
}

// LenWidth returns the length-field width in bytes of an extended header, or
// 0 for a compact one.
func (h StringHeader) LenWidth() int {
	if h.compact {
		return 0
	}

	return int(h.lenWidth)
}

// Encode returns the header byte.
func (h StringHeader) Encode() byte {
	b := byte(stringTypeBits)

	if h.compact {
		b |= stringCompactVariantBit
		b |= h.len & stringCompactLenBits
	} else {
		b |= (h.lenWidth - 1) & stringExtendedWidthBits
	}

	return b
}

// DecodeString interprets b as a string header.
func DecodeString(b byte) (StringHeader, error) {
	if err := MarkerString.Validate(b); err != nil {
		return StringHeader{}, err
	}

	if b&stringCompactVariantBit != 0 {
		return StringHeader{compact: true, len: b & stringCompactLenBits}, nil
	}

	return StringHeader{lenWidth: b&stringExtendedWidthBits + 1}, nil
}
