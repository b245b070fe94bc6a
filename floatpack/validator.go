package floatpack

import "math"

// Validator32 decides whether a narrower candidate width preserves a float32
// value: before is the original, after is the candidate widened back to
// float32. Returning false rejects the candidate.
type Validator32 func(before, after float32) bool

// Validator64 is the float64 counterpart of Validator32.
type Validator64 func(before, after float64) bool

// AbsoluteValidator32 accepts a candidate when |before − after| ≤ |eps|.
// Non-normal inputs (NaN, infinities, zeros) are always accepted: those are
// preserved exactly by the truncation itself.
func AbsoluteValidator32(eps float32) Validator32 {
	return func(before, after float32) bool {
		if !mayLosePrecision32(before) {
			return true
		}

		return absDiff32(before, after) <= abs32(eps)
	}
}

// RelativeValidator32 accepts a candidate when |before − after| ≤ |before·eps|.
func RelativeValidator32(eps float32) Validator32 {
	return func(before, after float32) bool {
		if !mayLosePrecision32(before) {
			return true
		}

		return absDiff32(before, after) <= abs32(before*eps)
	}
}

// CustomValidator32 wraps a user predicate, still skipping non-normal inputs.
func CustomValidator32(fn func(before, after float32) bool) Validator32 {
	return func(before, after float32) bool {
		if !mayLosePrecision32(before) {
			return true
		}

		return fn(before, after)
	}
}

// ExactValidator32 accepts only bit-exact candidates. This is the default:
// lossy packing is opt-in.
func ExactValidator32() Validator32 {
	return AbsoluteValidator32(0)
}

// AbsoluteValidator64 accepts a candidate when |before − after| ≤ |eps|.
// Non-normal inputs (NaN, infinities, zeros) are always accepted.
func AbsoluteValidator64(eps float64) Validator64 {
	return func(before, after float64) bool {
		if !mayLosePrecision64(before) {
			return true
		}

		return math.Abs(before-after) <= math.Abs(eps)
	}
}

// RelativeValidator64 accepts a candidate when |before − after| ≤ |before·eps|.
func RelativeValidator64(eps float64) Validator64 {
	return func(before, after float64) bool {
		if !mayLosePrecision64(before) {
			return true
		}

		return math.Abs(before-after) <= math.Abs(before*eps)
	}
}

// CustomValidator64 wraps a user predicate, still skipping non-normal inputs.
func CustomValidator64(fn func(before, after float64) bool) Validator64 {
	return func(before, after float64) bool {
		if !mayLosePrecision64(before) {
			return true
		}

		return fn(before, after)
	}
}

// ExactValidator64 accepts only bit-exact candidates.
func ExactValidator64() Validator64 {
	return AbsoluteValidator64(0)
}

// Only normal and subnormal values can pick up truncation error; NaN,
// infinities and zeros survive any width by construction.
func mayLosePrecision32(f float32) bool {
	c := FromFloat32(f).Classify()

	return c == CategoryNormal || c == CategorySubnormal
}

func mayLosePrecision64(f float64) bool {
	c := FromFloat64(f).Classify()

	return c == CategoryNormal || c == CategorySubnormal
}

func abs32(f float32) float32 {
	return math.Float32frombits(math.Float32bits(f) &^ (1 << 31))
}

func absDiff32(a, b float32) float32 {
	return abs32(a - b)
}
