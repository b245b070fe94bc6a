package header

import "github.com/arloliu/lilliput/numpack"

// Sequence header layout:
//
//	compact:  0b0011_0LLL  L = 3-bit element count, encoded values follow
//	extended: 0b0010_0WWW  W = width of the length field in bytes, minus 1
const (
	seqTypeBits = 0b00100000

	seqCompactVariantBit = 0b00010000

	// SeqCompactMaxLen is the largest element count the compact sequence form
	// can carry inline.
	SeqCompactMaxLen = 0b00000111

	seqCompactLenBits    = 0b00000111
	seqExtendedWidthBits = 0b00000111
)

// SeqHeader describes the header byte of an encoded sequence.
type SeqHeader struct {
	compact  bool
	len      uint8 // compact element count, 0..7
	lenWidth uint8 // extended length-field width, 1..8
}

// CompactSeq builds a compact sequence header carrying the element count
// inline. Counts above SeqCompactMaxLen are masked off.
func CompactSeq(length uint8) SeqHeader {
	return SeqHeader{compact: true, len: length & seqCompactLenBits}
}

// ExtendedSeq builds an extended sequence header declaring a length field of
// lenWidth bytes, 1 through 8.
func ExtendedSeq(lenWidth uint8) SeqHeader {
	return SeqHeader{lenWidth: (lenWidth-1)&seqExtendedWidthBits + 1}
}

// OptimalSeq picks the compact form when the count fits, else the minimal
// extended length width.
func OptimalSeq(length int) SeqHeader {
	if length <= SeqCompactMaxLen {
		return CompactSeq(uint8(length))
	}

	return ExtendedSeq(uint8(numpack.OptimalWidth(uint64(length))))
}

// NativeSeq always uses the extended form with a native {1,2,4,8} length width.
func NativeSeq(length int) SeqHeader {
	return ExtendedSeq(uint8(numpack.NativeWidth(uint64(length))))
}

// VerbatimSeq always uses the extended form with a full 8-byte length.
func VerbatimSeq() SeqHeader {
	return ExtendedSeq(8)
}

// Marker returns MarkerSeq.
func (h SeqHeader) Marker() Marker {
	return MarkerSeq
}

// IsCompact reports whether the element count lives in the header byte itself.
func (h SeqHeader) IsCompact() bool {
	return h.compact
}

// CompactLen returns the inline element count of a compact header.
func (h SeqHeader) CompactLen() int {
	return int(h.len)
}

// LenWidth returns the length-field width in bytes of an extended header, or
// 0 for a compact one.
func (h SeqHeader) LenWidth() int {
	if h.compact {
		return 0
	}

	return int(h.lenWidth)
}

// Encode returns the header byte.
func (h SeqHeader) Encode() byte {
	b := byte(seqTypeBits)

	if h.compact {
		b |= seqCompactVariantBit
		b |= h.len & seqCompactLenBits
	} else {
		b |= (h.lenWidth - 1) & seqExtendedWidthBits
	}

	return b
}

// DecodeSeq interprets b as a sequence header.
func DecodeSeq(b byte) (SeqHeader, error) {
	if err := MarkerSeq.Validate(b); err != nil {
		return SeqHeader{}, err
	}

	if b&seqCompactVariantBit != 0 {
		return SeqHeader{compact: true, len: b & seqCompactLenBits}, nil
	}

	return SeqHeader{lenWidth: b&seqExtendedWidthBits + 1}, nil
}
