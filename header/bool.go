package header

// Bool header layout:
//
//	0b0000_001V  V = the boolean value; no payload follows
const (
	boolTypeBits = 0b00000010
	boolValueBit = 0b00000001
)

// BoolHeader describes the header byte of an encoded boolean; the value
// itself lives in the header byte.
type BoolHeader struct {
	value bool
}

// NewBool builds a bool header carrying value.
func NewBool(value bool) BoolHeader {
	return BoolHeader{value: value}
}

// Marker returns MarkerBool.
func (h BoolHeader) Marker() Marker {
	return MarkerBool
}

// Value returns the boolean carried by the header.
func (h BoolHeader) Value() bool {
	return h.value
}

// Encode returns the header byte.
func (h BoolHeader) Encode() byte {
	return boolTypeBits | bitsIf(boolValueBit, h.value)
}

// DecodeBool interprets b as a bool header.
func DecodeBool(b byte) (BoolHeader, error) {
	if err := MarkerBool.Validate(b); err != nil {
		return BoolHeader{}, err
	}

	return BoolHeader{value: b&boolValueBit != 0}, nil
}
