package header

import "github.com/arloliu/lilliput/errs"

// Header is the decoded form of a value's first byte: one of the per-kind
// header types.
type Header interface {
	// Marker returns the kind of the header.
	Marker() Marker
	// Encode returns the header byte.
	Encode() byte
}

// Decode interprets b as a header of whatever kind its marker identifies.
// The reserved marker (a zero byte) is rejected.
func Decode(b byte) (Header, error) {
	switch Detect(b) {
	case MarkerInt:
		return DecodeInt(b)
	case MarkerString:
		return DecodeString(b)
	case MarkerSeq:
		return DecodeSeq(b)
	case MarkerMap:
		return DecodeMap(b)
	case MarkerFloat:
		return DecodeFloat(b)
	case MarkerBytes:
		return DecodeBytes(b)
	case MarkerBool:
		return DecodeBool(b)
	case MarkerNull:
		return DecodeNull(b)
	default:
		return nil, errs.InvalidValue("value header", "reserved marker byte", errs.NoPos)
	}
}
