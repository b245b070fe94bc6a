package lilliput

import (
	"fmt"

	"github.com/arloliu/lilliput/floatpack"
	"github.com/arloliu/lilliput/internal/options"
)

// PackingMode selects how aggressively the encoder shrinks on-wire widths.
type PackingMode uint8

const (
	// PackingNone keeps the native width of the source type.
	PackingNone PackingMode = iota
	// PackingNative picks the smallest native width: {1,2,4,8} bytes for
	// integers and lengths, the native packed-float ladder for floats.
	PackingNative
	// PackingOptimal picks the smallest width of any byte count, including
	// the compact header forms.
	PackingOptimal
)

func (m PackingMode) String() string {
	switch m {
	case PackingNone:
		return "none"
	case PackingNative:
		return "native"
	case PackingOptimal:
		return "optimal"
	default:
		return "invalid"
	}
}

// StructRepr selects the wire shape the object-mapping layer uses for
// structs: a sequence of field values or a map keyed by field name.
type StructRepr uint8

const (
	StructReprSeq StructRepr = iota
	StructReprMap
)

// EnumVariantRepr selects how the object-mapping layer tags enum variants:
// by index or by name.
type EnumVariantRepr uint8

const (
	EnumVariantReprIndex EnumVariantRepr = iota
	EnumVariantReprName
)

// EncoderConfig holds the width-selection policies and float-loss validators
// of an encoder. The zero value is not ready for use; construct with
// NewEncoderConfig or let NewEncoder apply the defaults.
type EncoderConfig struct {
	// IntPacking selects the width policy for integer bodies.
	IntPacking PackingMode
	// FloatPacking selects the width policy for float bodies.
	FloatPacking PackingMode
	// LengthPacking selects the framing policy for String/Seq/Map lengths.
	LengthPacking PackingMode

	// Float32Validator accepts or rejects lossy float32 width candidates.
	Float32Validator floatpack.Validator32
	// Float64Validator accepts or rejects lossy float64 width candidates.
	Float64Validator floatpack.Validator64

	// StructRepr and EnumVariantRepr configure the object-mapping layer
	// above the codec; the codec itself does not consult them.
	StructRepr      StructRepr
	EnumVariantRepr EnumVariantRepr
}

// NewEncoderConfig returns the default configuration: optimal packing
// everywhere with exact (lossless) float validators.
func NewEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		IntPacking:       PackingOptimal,
		FloatPacking:     PackingOptimal,
		LengthPacking:    PackingOptimal,
		Float32Validator: floatpack.ExactValidator32(),
		Float64Validator: floatpack.ExactValidator64(),
	}
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption = options.Option[*EncoderConfig]

// WithPacking sets the integer, float and length packing modes at once.
func WithPacking(m PackingMode) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.IntPacking = m
		c.FloatPacking = m
		c.LengthPacking = m
	})
}

// WithIntPacking sets the width policy for integer bodies.
func WithIntPacking(m PackingMode) EncoderOption {
	return options.NoError(func(c *EncoderConfig) { c.IntPacking = m })
}

// WithFloatPacking sets the width policy for float bodies.
func WithFloatPacking(m PackingMode) EncoderOption {
	return options.NoError(func(c *EncoderConfig) { c.FloatPacking = m })
}

// WithLengthPacking sets the framing policy for String/Seq/Map lengths.
func WithLengthPacking(m PackingMode) EncoderOption {
	return options.NoError(func(c *EncoderConfig) { c.LengthPacking = m })
}

// WithFloat32Validator sets the loss validator consulted when packing
// float32 values below their native width.
func WithFloat32Validator(v floatpack.Validator32) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if v == nil {
			return fmt.Errorf("nil float32 validator")
		}
		c.Float32Validator = v

		return nil
	})
}

// WithFloat64Validator sets the loss validator consulted when packing
// float64 values below their native width.
func WithFloat64Validator(v floatpack.Validator64) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if v == nil {
			return fmt.Errorf("nil float64 validator")
		}
		c.Float64Validator = v

		return nil
	})
}

// WithStructRepr sets the struct representation for the mapping layer.
func WithStructRepr(r StructRepr) EncoderOption {
	return options.NoError(func(c *EncoderConfig) { c.StructRepr = r })
}

// WithEnumVariantRepr sets the enum variant representation for the mapping
// layer.
func WithEnumVariantRepr(r EnumVariantRepr) EncoderOption {
	return options.NoError(func(c *EncoderConfig) { c.EnumVariantRepr = r })
}

// DefaultMaxDepth is the default bound on Seq/Map nesting during decode.
const DefaultMaxDepth = 128

// DecoderConfig holds the decoder limits.
type DecoderConfig struct {
	// MaxDepth bounds Seq/Map nesting; 0 disables the bound entirely.
	MaxDepth int
}

// NewDecoderConfig returns the default configuration.
func NewDecoderConfig() *DecoderConfig {
	return &DecoderConfig{MaxDepth: DefaultMaxDepth}
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption = options.Option[*DecoderConfig]

// WithMaxDepth sets the nesting bound. n must be positive.
func WithMaxDepth(n int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("max depth must be positive, got %d", n)
		}
		c.MaxDepth = n

		return nil
	})
}

// WithUnboundedDepth disables the nesting bound. The depth counter is the
// decoder's only defense against adversarial input; disable it only when the
// caller guarantees stack safety out of band.
func WithUnboundedDepth() DecoderOption {
	return options.NoError(func(c *DecoderConfig) { c.MaxDepth = 0 })
}
