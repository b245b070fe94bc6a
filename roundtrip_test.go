package lilliput

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/lilliput/floatpack"
	"github.com/arloliu/lilliput/value"
)

// Round-trip coverage across every packing mode combination: for every value
// v and every legal config, decode(encode(v)) equals v under the documented
// equivalences.

func roundtripValues() []value.Value {
	deep := value.Value(value.Bool(true))
	for range 30 {
		deep = value.Seq{deep}
	}

	bigMap := value.NewMap()
	for i := range 20 {
		bigMap.Set(value.Int64(int64(i)), value.String(strings.Repeat("v", i)))
	}

	return []value.Value{
		value.Null{},
		value.Bool(true),
		value.Bool(false),
		value.Uint8(0),
		value.Uint8(31),
		value.Uint8(32),
		value.Uint16(256),
		value.Uint32(1 << 24),
		value.Uint64(math.MaxUint64),
		value.Int8(-1),
		value.Int8(math.MinInt8),
		value.Int16(-15),
		value.Int16(math.MaxInt16),
		value.Int32(-70000),
		value.Int64(math.MinInt64),
		value.Int64(math.MaxInt64),
		value.Float32(0),
		value.Float32(1.0),
		value.Float32(float32(math.Pi)),
		value.Float32(float32(math.Inf(-1))),
		value.Float64(0.1),
		value.Float64(math.MaxFloat64),
		value.Float64(math.SmallestNonzeroFloat64),
		value.Float64(math.Inf(1)),
		value.String(""),
		value.String("hello"),
		value.String(strings.Repeat("long", 100)),
		value.String("héllo wörld ✓"),
		value.Bytes{},
		value.Bytes{0x00, 0xFF, 0x7F},
		value.Bytes(strings.Repeat("b", 300)),
		value.Seq{},
		value.Seq{value.Uint8(1), value.Int8(-1), value.String("x")},
		value.Seq{value.Seq{value.Seq{}}},
		deep,
		value.NewMap(),
		bigMap,
	}
}

func allPackingModes() []PackingMode {
	return []PackingMode{PackingNone, PackingNative, PackingOptimal}
}

func TestRoundtrip_AllConfigs(t *testing.T) {
	for _, intMode := range allPackingModes() {
		for _, floatMode := range allPackingModes() {
			for _, lenMode := range allPackingModes() {
				opts := []EncoderOption{
					WithIntPacking(intMode),
					WithFloatPacking(floatMode),
					WithLengthPacking(lenMode),
				}

				for _, v := range roundtripValues() {
					data, err := Encode(v, opts...)
					require.NoError(t, err, "encode %v (int=%v float=%v len=%v)", v, intMode, floatMode, lenMode)

					decoded, err := Decode(data)
					require.NoError(t, err, "decode %v (int=%v float=%v len=%v)", v, intMode, floatMode, lenMode)
					require.True(t, value.Equal(v, decoded),
						"roundtrip %v -> %v (int=%v float=%v len=%v)", v, decoded, intMode, floatMode, lenMode)
				}
			}
		}
	}
}

func TestRoundtrip_NaN(t *testing.T) {
	for _, mode := range allPackingModes() {
		data, err := Encode(value.Float64(math.NaN()), WithFloatPacking(mode))
		require.NoError(t, err)

		decoded, err := Decode(data)
		require.NoError(t, err)

		f, ok := decoded.(value.Float)
		require.True(t, ok)
		require.True(t, math.IsNaN(f.Float64Value()), "mode %v", mode)
	}
}

func TestRoundtrip_LossyFloatBoundedByValidator(t *testing.T) {
	// With a lossy validator, the decoded value is within the accepted bound
	// of the original even though the wire is narrower.
	eps := 1e-3
	original := math.Pi

	data, err := Encode(value.Float64(original), WithFloat64Validator(floatpack.AbsoluteValidator64(eps)))
	require.NoError(t, err)
	require.Less(t, len(data), 9, "narrower than a full float64")

	decoded, err := Decode(data)
	require.NoError(t, err)

	f, ok := decoded.(value.Float)
	require.True(t, ok)
	require.InDelta(t, original, f.Float64Value(), eps)
}

func TestRoundtrip_IntWidthMinimality(t *testing.T) {
	// With optimal packing the encoded body length equals the minimal byte
	// count of the zig-zag (signed) or plain (unsigned) magnitude.
	cases := []struct {
		v        value.Value
		wireSize int
	}{
		{value.Uint64(0), 1},              // compact
		{value.Uint64(31), 1},             // compact
		{value.Uint64(32), 2},             // header + 1
		{value.Uint64(0xFF), 2},           // header + 1
		{value.Uint64(0x100), 3},          // header + 2
		{value.Uint64(0xFFFFFF), 4},       // header + 3
		{value.Uint64(1 << 56), 9},        // header + 8
		{value.Int64(-1), 1},              // compact, zig-zag 1
		{value.Int64(-16), 1},             // compact, zig-zag 31
		{value.Int64(-17), 2},             // header + 1, zig-zag 33
		{value.Int64(-129), 3},            // header + 2, zig-zag 257
		{value.Int64(math.MaxInt64), 9},   // header + 8
	}

	for _, tc := range cases {
		data, err := Encode(tc.v)
		require.NoError(t, err)
		require.Len(t, data, tc.wireSize, "value %v", tc.v)
	}
}
