package floatpack

import "fmt"

// Truncate narrows the value to w, which must not be wider than the current
// width, rounding to nearest with ties to even. It returns both the packed
// result and the packed value widened back to the source width, so the caller
// can measure the loss against the original.
//
// Overflow yields an infinity, underflow a subnormal or zero; NaNs keep the
// quiet bit and as much payload as fits.
func (p PackedFloat) Truncate(w Width) (back, packed PackedFloat) {
	checkWidth(w)
	cur := p.Width()
	if w == cur {
		return p, p
	}
	if w > cur {
		panic(fmt.Sprintf("floatpack: truncate from width %d to wider width %d", cur, w))
	}

	packed = PackedFloat{width: w, bits: truncateBits(p.bits, reprs[cur], reprs[w])}
	back = packed.Extend(cur)

	return back, packed
}

// TryTruncate is Truncate, rejecting results whose floating-point class
// changed: a normal that overflowed to infinity or underflowed to a subnormal
// or zero is reported as not ok.
func (p PackedFloat) TryTruncate(w Width) (back, packed PackedFloat, ok bool) {
	back, packed = p.Truncate(w)
	ok = p.Classify() == packed.Classify()

	return back, packed, ok
}

// Ported from the classic compiler-builtins narrowing algorithm, generalized
// over the eight packed layouts. Rounding is to nearest, ties to even.
func truncateBits(b uint64, src, dst repr) uint64 {
	srcInf := src.expMask()
	srcSign := src.signMask()
	srcAbsMask := srcSign - 1

	sigDelta := src.sigBits - dst.sigBits
	roundMask := uint64(1)<<sigDelta - 1
	halfway := uint64(1) << (sigDelta - 1)

	srcNanCode := uint64(1)<<(src.sigBits-1) - 1
	dstQnan := uint64(1) << (dst.sigBits - 1)
	dstNanCode := dstQnan - 1

	biasDelta := src.expBias() - dst.expBias()
	underflow := (biasDelta + 1) << src.sigBits
	overflow := (src.expBias() + dst.expMax() - dst.expBias()) << src.sigBits

	srcAbs := b & srcAbsMask
	sign := b & srcSign

	var absResult uint64
	switch {
	case srcAbs-underflow < srcAbs-overflow:
		// Stays normal: right-shift with rounding and re-bias the exponent.
		// Rounding may carry all the way into the exponent, which correctly
		// produces the next binade or infinity.
		absResult = srcAbs >> sigDelta
		absResult -= biasDelta << dst.sigBits

		roundBits := srcAbs & roundMask
		if roundBits > halfway {
			absResult++
		} else if roundBits == halfway {
			absResult += absResult & 1
		}
	case srcAbs > srcInf:
		// NaN: quiet bit plus the top of the payload.
		absResult = dst.expMax() << dst.sigBits
		absResult |= dstQnan
		absResult |= dstNanCode & ((srcAbs & srcNanCode) >> sigDelta)
	case srcAbs >= overflow:
		// Overflows to infinity.
		absResult = dst.expMax() << dst.sigBits
	case srcAbs == 0:
		absResult = 0
	default:
		// Underflows to a subnormal or zero. Denormalize with a sticky bit,
		// then round the denormalized significand.
		srcExp := srcAbs >> src.sigBits
		shift := biasDelta + 1 - srcExp
		significand := b&src.sigMask() | src.implicitBit()

		if shift > uint64(src.sigBits) {
			absResult = 0
		} else {
			var sticky uint64
			if significand&(uint64(1)<<shift-1) != 0 {
				sticky = 1
			}
			denorm := significand>>shift | sticky

			absResult = denorm >> sigDelta
			roundBits := denorm & roundMask
			if roundBits > halfway {
				absResult++
			} else if roundBits == halfway {
				absResult += absResult & 1
			}
		}
	}

	return absResult | sign>>(src.bits-dst.bits)
}
