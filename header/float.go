package header

import "github.com/arloliu/lilliput/floatpack"

// Float header layout:
//
//	0b0000_1WWW  W = packed width in bytes, minus 1; W+1 big-endian bytes follow
const (
	floatTypeBits = 0b00001000

	floatWidthBits = 0b00000111
)

// FloatHeader describes the header byte of an encoded float.
type FloatHeader struct {
	width uint8 // 1..8
}

// NewFloat builds a float header for the given packed width.
func NewFloat(width floatpack.Width) FloatHeader {
	return FloatHeader{width: (uint8(width)-1)&floatWidthBits + 1}
}

// Marker returns MarkerFloat.
func (h FloatHeader) Marker() Marker {
	return MarkerFloat
}

// Width returns the packed width, 1 through 8 bytes.
func (h FloatHeader) Width() floatpack.Width {
	return floatpack.Width(h.width)
}

// Encode returns the header byte.
func (h FloatHeader) Encode() byte {
	return floatTypeBits | (h.width-1)&floatWidthBits
}

// DecodeFloat interprets b as a float header.
func DecodeFloat(b byte) (FloatHeader, error) {
	if err := MarkerFloat.Validate(b); err != nil {
		return FloatHeader{}, err
	}

	return FloatHeader{width: b&floatWidthBits + 1}, nil
}
