package floatpack

// Compare orders two packed floats of the same width per IEEE-754:
// it returns -1, 0 or +1 and ordered=true, or ordered=false when either
// operand is NaN. Positive and negative zero compare equal.
//
// Both operands must have the same width; compare across widths by extending
// the narrower one first.
func (p PackedFloat) Compare(q PackedFloat) (cmp int, ordered bool) {
	if p.Width() != q.Width() {
		panic("floatpack: compare across widths")
	}

	r := reprs[p.Width()]
	inf := r.expMask()
	absMask := r.signMask() - 1

	pAbs := p.bits & absMask
	qAbs := q.bits & absMask

	// NaNs are unordered.
	if pAbs > inf || qAbs > inf {
		return 0, false
	}

	// Both zeros are equal regardless of sign.
	if pAbs|qAbs == 0 {
		return 0, true
	}

	pNeg := p.bits&r.signMask() != 0
	qNeg := q.bits&r.signMask() != 0

	switch {
	case pNeg != qNeg:
		if pNeg {
			return -1, true
		}

		return 1, true
	case pNeg:
		// Both negative: larger magnitude is smaller.
		return compareUint(qAbs, pAbs), true
	default:
		return compareUint(pAbs, qAbs), true
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
