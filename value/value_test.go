package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt_CrossWidthEquality(t *testing.T) {
	require.True(t, Int8(5).Equal(Int64(5)))
	require.True(t, Int16(-300).Equal(Int64(-300)))
	require.True(t, Uint8(200).Equal(Uint64(200)))
	require.False(t, Int8(5).Equal(Int8(6)))
}

func TestInt_CrossSignednessEquality(t *testing.T) {
	// Holds only when the signed side is non-negative and numerically equal.
	require.True(t, Int32(5).Equal(Uint8(5)))
	require.True(t, Uint64(0).Equal(Int8(0)))
	require.False(t, Int8(-1).Equal(Uint8(255)))
	require.False(t, Int64(-1).Equal(Uint64(math.MaxUint64)))
}

func TestInt_Ordering(t *testing.T) {
	// Within signedness: numeric. Across: negative signed below any unsigned.
	require.Equal(t, -1, Int8(-1).Compare(Int8(0)))
	require.Equal(t, 1, Uint64(2).Compare(Uint64(1)))
	require.Equal(t, -1, Int64(-1).Compare(Uint64(0)))
	require.Equal(t, 1, Uint64(0).Compare(Int64(-1)))
	require.Equal(t, 0, Int64(7).Compare(Uint16(7)))
	require.Equal(t, -1, Int64(math.MinInt64).Compare(Uint64(0)))
	require.Equal(t, -1, Int64(math.MaxInt64).Compare(Uint64(math.MaxUint64)))
}

func TestInt_Accessors(t *testing.T) {
	v := Int16(-42)
	require.True(t, v.Signed())
	require.Equal(t, 2, v.Width())
	require.True(t, v.IsNegative())

	s, ok := v.Int64Value()
	require.True(t, ok)
	require.Equal(t, int64(-42), s)

	_, ok = v.Uint64Value()
	require.False(t, ok, "negative value has no unsigned form")

	u := Uint64(math.MaxUint64)
	_, ok = u.Int64Value()
	require.False(t, ok, "max uint64 has no signed form")

	uu, ok := u.Uint64Value()
	require.True(t, ok)
	require.Equal(t, uint64(math.MaxUint64), uu)
}

func TestInt_HashConsistentWithEqual(t *testing.T) {
	require.Equal(t, Hash(Int8(5)), Hash(Uint64(5)))
	require.Equal(t, Hash(Int16(-300)), Hash(Int64(-300)))
	require.NotEqual(t, Hash(Int8(5)), Hash(Int8(6)))
}

func TestFloat_CrossWidthEquality(t *testing.T) {
	require.True(t, Float32(1.5).Equal(Float64(1.5)))
	require.True(t, Float64(1.5).Equal(Float32(1.5)))
	// 0.1 widens to a different float64 than the float64 literal.
	require.False(t, Float32(0.1).Equal(Float64(0.1)))
}

func TestFloat_TotalOrder(t *testing.T) {
	negZero := Float64(math.Copysign(0, -1))
	posZero := Float64(0)

	require.Equal(t, -1, negZero.Compare(posZero), "-0 < +0")
	require.False(t, negZero.Equal(posZero), "-0 and +0 are distinct bit patterns")

	nan := Float64(math.NaN())
	require.True(t, nan.Equal(nan), "NaN equals itself under the total order")
	require.Equal(t, 1, nan.Compare(Float64(math.Inf(1))), "+NaN above +Inf")

	require.Equal(t, -1, Float64(math.Inf(-1)).Compare(Float64(-1e308)))
	require.Equal(t, -1, Float64(-1).Compare(Float64(1)))
}

func TestFloat_HashConsistentWithEqual(t *testing.T) {
	require.Equal(t, Hash(Float32(2.5)), Hash(Float64(2.5)))
	require.NotEqual(t, Hash(Float64(0)), Hash(Float64(math.Copysign(0, -1))))
}

func TestEqual_DistinctKinds(t *testing.T) {
	require.False(t, Equal(Null{}, Unit{}), "unit and null are distinct kinds")
	require.False(t, Equal(Bool(false), Null{}))
	require.False(t, Equal(Int64(0), Float64(0)))
	require.False(t, Equal(String("a"), Bytes("a")))

	require.True(t, Equal(Null{}, Null{}))
	require.True(t, Equal(Unit{}, Unit{}))
	require.True(t, Equal(Bool(true), Bool(true)))
}

func TestEqual_Composites(t *testing.T) {
	a := Seq{Int8(1), String("x"), Seq{Bool(true)}}
	b := Seq{Int64(1), String("x"), Seq{Bool(true)}}
	require.True(t, Equal(a, b))

	c := Seq{Int8(1), String("x"), Seq{Bool(false)}}
	require.False(t, Equal(a, c))

	require.True(t, Equal(Bytes{1, 2, 3}, Bytes{1, 2, 3}))
	require.False(t, Equal(Bytes{1, 2, 3}, Bytes{1, 2}))
}

func TestMap_InsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set(String("b"), Int8(2))
	m.Set(String("a"), Int8(1))
	m.Set(String("c"), Int8(3))

	entries := m.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, String("b"), entries[0].Key)
	require.Equal(t, String("a"), entries[1].Key)
	require.Equal(t, String("c"), entries[2].Key)
}

func TestMap_LastWriteWins(t *testing.T) {
	m := NewMap()
	m.Set(String("k"), Int8(1))
	m.Set(String("k"), Int8(2))

	require.Equal(t, 1, m.Len())
	v, ok := m.Get(String("k"))
	require.True(t, ok)
	require.True(t, Equal(Int8(2), v))

	// Overwriting keeps the original insertion position.
	m2 := NewMap()
	m2.Set(String("x"), Int8(1))
	m2.Set(String("y"), Int8(2))
	m2.Set(String("x"), Int8(3))
	require.Equal(t, String("x"), m2.Entries()[0].Key)
	require.True(t, Equal(Int8(3), m2.Entries()[0].Value))
}

func TestMap_CanonicalKeyLookup(t *testing.T) {
	// A key stored as one subtype is found via any canonically equal subtype.
	m := NewMap()
	m.Set(Int8(5), String("five"))

	v, ok := m.Get(Uint64(5))
	require.True(t, ok)
	require.True(t, Equal(String("five"), v))
}

func TestMap_GetMissing(t *testing.T) {
	m := NewMap()
	_, ok := m.Get(String("missing"))
	require.False(t, ok)
	require.False(t, m.Has(String("missing")))
}

func TestMap_Equal(t *testing.T) {
	a := NewMap()
	a.Set(String("x"), Int8(1))
	a.Set(String("y"), Int8(2))

	b := NewMap()
	b.Set(String("x"), Int64(1))
	b.Set(String("y"), Int64(2))

	require.True(t, Equal(a, b))

	// Same entries, different insertion order: unequal by documented choice.
	c := NewMap()
	c.Set(String("y"), Int8(2))
	c.Set(String("x"), Int8(1))
	require.False(t, Equal(a, c))
}

func TestSeq_HashDiffersFromPrefix(t *testing.T) {
	a := Seq{String("ab")}
	b := Seq{String("a"), String("b")}
	require.NotEqual(t, Hash(a), Hash(b))
}
