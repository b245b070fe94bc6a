package value

import (
	"fmt"
	"math"

	"github.com/arloliu/lilliput/endian"
	"github.com/arloliu/lilliput/internal/hash"
)

// be is the canonical byte order for hashing, matching the wire.
var be = endian.GetBigEndianEngine()

// Int is an integer value carrying its signedness and physical width. The
// width is preserved through encoding so that a decoded value reports the
// subtype the wire declared, but equality and ordering are canonical: an
// int8(5), an int64(5) and a uint16(5) are all equal.
type Int struct {
	signed bool
	width  uint8 // bytes: 1, 2, 4 or 8
	bits   uint64
}

// Int8 wraps an int8.
func Int8(v int8) Int {
	return Int{signed: true, width: 1, bits: uint64(v) & 0xFF}
}

// Int16 wraps an int16.
func Int16(v int16) Int {
	return Int{signed: true, width: 2, bits: uint64(v) & 0xFFFF}
}

// Int32 wraps an int32.
func Int32(v int32) Int {
	return Int{signed: true, width: 4, bits: uint64(v) & 0xFFFFFFFF}
}

// Int64 wraps an int64.
func Int64(v int64) Int {
	return Int{signed: true, width: 8, bits: uint64(v)}
}

// Uint8 wraps a uint8.
func Uint8(v uint8) Int {
	return Int{width: 1, bits: uint64(v)}
}

// Uint16 wraps a uint16.
func Uint16(v uint16) Int {
	return Int{width: 2, bits: uint64(v)}
}

// Uint32 wraps a uint32.
func Uint32(v uint32) Int {
	return Int{width: 4, bits: uint64(v)}
}

// Uint64 wraps a uint64.
func Uint64(v uint64) Int {
	return Int{width: 8, bits: v}
}

// Kind returns KindInt.
func (Int) Kind() Kind {
	return KindInt
}

// Signed reports whether the value carries a signed subtype.
func (v Int) Signed() bool {
	return v.signed
}

// Width returns the physical width of the subtype in bytes: 1, 2, 4 or 8.
func (v Int) Width() int {
	return int(v.width)
}

// Int64Value returns the canonical signed value. For a signed subtype it
// sign-extends from the physical width; for an unsigned subtype it fails when
// the value exceeds the int64 range.
func (v Int) Int64Value() (int64, bool) {
	if !v.signed {
		if v.bits > math.MaxInt64 {
			return 0, false
		}

		return int64(v.bits), true
	}

	return v.canonSigned(), true
}

// Uint64Value returns the canonical unsigned value, failing for negative
// signed values.
func (v Int) Uint64Value() (uint64, bool) {
	if v.signed {
		s := v.canonSigned()
		if s < 0 {
			return 0, false
		}

		return uint64(s), true
	}

	return v.bits, true
}

// IsNegative reports whether the value is a negative signed integer.
func (v Int) IsNegative() bool {
	return v.signed && v.canonSigned() < 0
}

// canonSigned sign-extends the stored bits from the physical width.
func (v Int) canonSigned() int64 {
	switch v.width {
	case 1:
		return int64(int8(v.bits))
	case 2:
		return int64(int16(v.bits))
	case 4:
		return int64(int32(v.bits))
	default:
		return int64(v.bits)
	}
}

// Equal reports canonical equality: widths are ignored, and a signed value
// equals an unsigned one exactly when it is non-negative and numerically
// equal.
func (v Int) Equal(o Int) bool {
	return v.Compare(o) == 0
}

// Compare totally orders integer values: within one signedness the usual
// numeric order; across signedness every negative signed value sorts below
// every unsigned value.
func (v Int) Compare(o Int) int {
	switch {
	case v.signed && o.signed:
		return compareInt64(v.canonSigned(), o.canonSigned())
	case !v.signed && !o.signed:
		return compareUint64(v.bits, o.bits)
	case v.signed:
		s := v.canonSigned()
		if s < 0 {
			return -1
		}

		return compareUint64(uint64(s), o.bits)
	default:
		s := o.canonSigned()
		if s < 0 {
			return 1
		}

		return compareUint64(v.bits, uint64(s))
	}
}

func (v Int) hashInto(d *hash.Digest) {
	// Canonical form: non-negative values hash as unsigned regardless of
	// subtype, so cross-signedness equal values collide as required.
	var buf [10]byte
	buf[0] = byte(KindInt)

	if v.IsNegative() {
		buf[1] = 'i'
		be.PutUint64(buf[2:], uint64(v.canonSigned()))
	} else {
		buf[1] = 'u'
		u, _ := v.Uint64Value()
		be.PutUint64(buf[2:], u)
	}

	_, _ = d.Write(buf[:])
}

func (v Int) String() string {
	if v.signed {
		return fmt.Sprintf("%d", v.canonSigned())
	}

	return fmt.Sprintf("%d", v.bits)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
