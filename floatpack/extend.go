package floatpack

import (
	"fmt"
	"math/bits"
)

// Extend widens the value to w, which must not be narrower than the current
// width. Widening is exact: normals are shifted and re-biased, NaNs keep the
// quiet bit and payload, subnormals are renormalized into the wider exponent
// range.
func (p PackedFloat) Extend(w Width) PackedFloat {
	checkWidth(w)
	cur := p.Width()
	if w == cur {
		return p
	}
	if w < cur {
		panic(fmt.Sprintf("floatpack: extend from width %d to narrower width %d", cur, w))
	}

	return PackedFloat{width: w, bits: extendBits(p.bits, reprs[cur], reprs[w])}
}

// Ported from the classic compiler-builtins widening algorithm, generalized
// over the eight packed layouts.
func extendBits(b uint64, src, dst repr) uint64 {
	srcMinNormal := src.implicitBit()
	srcInf := src.expMask()
	srcSign := src.signMask()
	srcAbsMask := srcSign - 1

	sigDelta := dst.sigBits - src.sigBits
	biasDelta := dst.expBias() - src.expBias()

	srcAbs := b & srcAbsMask

	var absResult uint64
	switch {
	case srcAbs-srcMinNormal < srcInf-srcMinNormal:
		// Normal: shift the significand into position and re-bias the exponent.
		absResult = srcAbs << sigDelta
		absResult += biasDelta << dst.sigBits
	case srcAbs >= srcInf:
		// NaN or infinity: all-ones exponent, quiet bit and payload aligned
		// below the widened significand top.
		absResult = dst.expMax() << dst.sigBits
		absResult |= (srcAbs & src.sigMask()) << sigDelta
	case srcAbs != 0:
		// Subnormal: renormalize. With an unchanged bias the value stays
		// subnormal and only the significand shifts.
		if biasDelta == 0 {
			absResult = srcAbs << sigDelta
		} else {
			scale := uint64(bits.LeadingZeros64(srcAbs) - bits.LeadingZeros64(srcMinNormal))
			absResult = srcAbs << (uint64(sigDelta) + scale)
			absResult = (absResult ^ dst.implicitBit()) | ((biasDelta + 1 - scale) << dst.sigBits)
		}
	}

	sign := (b & srcSign) << (dst.bits - src.bits)

	return absResult | sign
}
