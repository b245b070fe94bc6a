package value

import (
	"fmt"
	"math"

	"github.com/arloliu/lilliput/floatpack"
	"github.com/arloliu/lilliput/internal/hash"
)

// Float is a floating-point value carrying one of the two native widths.
// Arithmetic on the underlying numbers is ordinary IEEE-754; equality,
// ordering and hashing here use the total order over the widened 64-bit
// pattern, so NaNs are ordered and −0 sorts below +0.
type Float struct {
	wide bool // 64-bit subtype
	bits uint64
}

// Float32 wraps a float32.
func Float32(f float32) Float {
	return Float{bits: uint64(math.Float32bits(f))}
}

// Float64 wraps a float64.
func Float64(f float64) Float {
	return Float{wide: true, bits: math.Float64bits(f)}
}

// Kind returns KindFloat.
func (Float) Kind() Kind {
	return KindFloat
}

// Is64 reports whether the subtype is the 64-bit width.
func (v Float) Is64() bool {
	return v.wide
}

// Float64Value returns the value widened to float64.
func (v Float) Float64Value() float64 {
	if v.wide {
		return math.Float64frombits(v.bits)
	}

	return float64(math.Float32frombits(uint32(v.bits)))
}

// Float32Value returns the value as float32, narrowing natively for the
// 64-bit subtype.
func (v Float) Float32Value() float32 {
	if v.wide {
		return float32(math.Float64frombits(v.bits))
	}

	return math.Float32frombits(uint32(v.bits))
}

// Packed returns the value as a packed float at its native width.
func (v Float) Packed() floatpack.PackedFloat {
	if v.wide {
		return floatpack.FromBits(floatpack.W64, v.bits)
	}

	return floatpack.FromBits(floatpack.W32, v.bits)
}

// totalKey maps the widened 64-bit pattern onto an ordered unsigned key:
// negative values reverse, positives shift above them. This realizes the
// IEEE total order (−NaN < −Inf < ... < −0 < +0 < ... < +Inf < +NaN).
func (v Float) totalKey() uint64 {
	bits := v.Packed().Extend(floatpack.W64).Bits()
	if bits&(1<<63) != 0 {
		return ^bits
	}

	return bits | 1<<63
}

// Equal reports total-order equality over the widened bit pattern. A 32-bit
// value equals a 64-bit one exactly when widening reproduces the same
// pattern, which makes narrow-packed round trips compare equal.
func (v Float) Equal(o Float) bool {
	return v.totalKey() == o.totalKey()
}

// Compare totally orders float values by their widened bit pattern.
func (v Float) Compare(o Float) int {
	return compareUint64(v.totalKey(), o.totalKey())
}

func (v Float) hashInto(d *hash.Digest) {
	var buf [9]byte
	buf[0] = byte(KindFloat)
	be.PutUint64(buf[1:], v.totalKey())
	_, _ = d.Write(buf[:])
}

func (v Float) String() string {
	return fmt.Sprintf("%g", v.Float64Value())
}
