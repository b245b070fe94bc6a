// Package floatpack implements the packed floating-point kernel of the
// lilliput wire format: eight fixed IEEE-754-style layouts from one byte (F8)
// to eight bytes (F64), with classification, widening, narrowing with
// round-to-nearest-ties-to-even, comparison, and the width-selection policies
// used by the encoder.
//
// Each width has the standard IEEE-754 shape: one sign bit at the top, then
// the exponent, then the stored significand with one implicit leading bit for
// normal numbers. An all-ones exponent indicates NaN (nonzero significand) or
// infinity (zero significand); an all-zero exponent indicates zero (zero
// significand) or a subnormal (nonzero significand).
//
// | Width | Bytes | Exponent bits | Stored significand bits |
// |-------|-------|---------------|-------------------------|
// | W8    | 1     | 4             | 3                       |
// | W16   | 2     | 5             | 10                      |
// | W24   | 3     | 7             | 16                      |
// | W32   | 4     | 8             | 23                      |
// | W40   | 5     | 8             | 31                      |
// | W48   | 6     | 9             | 38                      |
// | W56   | 7     | 10            | 45                      |
// | W64   | 8     | 11            | 52                      |
//
// W16, W32 and W64 match IEEE-754 binary16/binary32/binary64 exactly.
package floatpack

import (
	"fmt"
	"math"
)

// Width is the on-wire size of a packed float in bytes, 1 through 8.
type Width uint8

const (
	W8  Width = 1
	W16 Width = 2
	W24 Width = 3
	W32 Width = 4
	W40 Width = 5
	W48 Width = 6
	W56 Width = 7
	W64 Width = 8
)

// repr holds the bit-layout constants of one packed width.
type repr struct {
	bits    uint32 // total width in bits
	expBits uint32 // exponent field width
	sigBits uint32 // stored significand width
}

// Indexed by Width; index 0 unused.
var reprs = [9]repr{
	W8:  {8, 4, 3},
	W16: {16, 5, 10},
	W24: {24, 7, 16},
	W32: {32, 8, 23},
	W40: {40, 8, 31},
	W48: {48, 9, 38},
	W56: {56, 10, 45},
	W64: {64, 11, 52},
}

func (r repr) signMask() uint64 {
	return 1 << (r.bits - 1)
}

func (r repr) sigMask() uint64 {
	return 1<<r.sigBits - 1
}

func (r repr) expMask() uint64 {
	return (r.signMask() - 1) &^ r.sigMask()
}

func (r repr) implicitBit() uint64 {
	return 1 << r.sigBits
}

func (r repr) expMax() uint64 {
	return 1<<r.expBits - 1
}

func (r repr) expBias() uint64 {
	return r.expMax() >> 1
}

func (r repr) valueMask() uint64 {
	if r.bits == 64 {
		return ^uint64(0)
	}

	return 1<<r.bits - 1
}

// PackedFloat is a floating-point value at one of the eight packed widths.
// The zero value is a W8 positive zero.
type PackedFloat struct {
	width Width
	bits  uint64
}

// FromFloat32 wraps a float32 as a W32 packed float, bit-exact.
func FromFloat32(f float32) PackedFloat {
	return PackedFloat{width: W32, bits: uint64(math.Float32bits(f))}
}

// FromFloat64 wraps a float64 as a W64 packed float, bit-exact.
func FromFloat64(f float64) PackedFloat {
	return PackedFloat{width: W64, bits: math.Float64bits(f)}
}

// FromBits builds a packed float of the given width from its raw bit pattern.
// Bits above the width are discarded.
func FromBits(w Width, bits uint64) PackedFloat {
	checkWidth(w)

	return PackedFloat{width: w, bits: bits & reprs[w].valueMask()}
}

// FromBEBytes builds a packed float of the given width from big-endian bytes.
// len(buf) must equal the width.
func FromBEBytes(w Width, buf []byte) PackedFloat {
	checkWidth(w)
	if len(buf) != int(w) {
		panic(fmt.Sprintf("floatpack: %d bytes for width %d", len(buf), w))
	}

	var bits uint64
	for _, b := range buf {
		bits = bits<<8 | uint64(b)
	}

	return PackedFloat{width: w, bits: bits}
}

// Width returns the packed width in bytes.
func (p PackedFloat) Width() Width {
	if p.width == 0 {
		return W8
	}

	return p.width
}

// Bits returns the raw bit pattern, right-aligned in the uint64.
func (p PackedFloat) Bits() uint64 {
	return p.bits
}

// AppendBytes appends the big-endian byte representation to dst.
func (p PackedFloat) AppendBytes(dst []byte) []byte {
	w := p.Width()
	for shift := (int(w) - 1) * 8; shift >= 0; shift -= 8 {
		dst = append(dst, byte(p.bits>>shift))
	}

	return dst
}

// Float32 converts the packed value to a float32. Widths up to W32 widen
// exactly; wider values go through float64 and narrow natively.
func (p PackedFloat) Float32() float32 {
	w := p.Width()
	if w > W32 {
		return float32(p.Float64())
	}

	q := p
	if w < W32 {
		q = p.Extend(W32)
	}

	return math.Float32frombits(uint32(q.bits))
}

// Float64 converts the packed value to a float64, widening exactly.
func (p PackedFloat) Float64() float64 {
	q := p
	if p.Width() < W64 {
		q = p.Extend(W64)
	}

	return math.Float64frombits(q.bits)
}

func (p PackedFloat) String() string {
	return fmt.Sprintf("F%d(%g)", p.Width()*8, p.Float64())
}

func checkWidth(w Width) {
	if w < W8 || w > W64 {
		panic(fmt.Sprintf("floatpack: invalid width %d", w))
	}
}
