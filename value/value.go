// Package value defines the lilliput data model: a tree-shaped tagged union
// of integers, floats, booleans, unit, null, byte strings, UTF-8 strings,
// sequences and maps.
//
// Values are compared with Equal, which applies the documented canonical
// equivalences: integers compare across widths and across signedness (when
// the signed side is non-negative), floats compare by the IEEE total order
// over their widened 64-bit pattern. Hash returns an xxHash64 consistent with
// Equal.
package value

import (
	"github.com/arloliu/lilliput/internal/hash"
)

// Kind identifies which member of the value union a Value is.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindFloat
	KindBool
	KindUnit
	KindNull
	KindBytes
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindUnit:
		return "unit"
	case KindNull:
		return "null"
	case KindBytes:
		return "byte sequence"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is one member of the closed lilliput value union: Int, Float, Bool,
// Unit, Null, Bytes, String, Seq or *Map. Nothing prevents a Seq or *Map from
// containing itself; Equal, Hash and the encoder do not detect such cycles and
// recurse without bound on them.
type Value interface {
	// Kind returns the union member tag.
	Kind() Kind

	// hashInto folds the value's canonical form into the digest. Implemented
	// only inside this package, which keeps the union closed.
	hashInto(d *hash.Digest)
}

// Hash returns an xxHash64 of the value's canonical form, consistent with
// Equal: equal values hash identically.
func Hash(v Value) uint64 {
	d := hash.NewDigest()
	v.hashInto(d)

	return d.Sum64()
}

// Equal reports whether two values are equal under the canonical equivalences
// of the data model. Values of different kinds are unequal, except Int/Int
// across signedness; Unit and Null are distinct kinds.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)

		return ok && av.Equal(bv)
	case Float:
		bv, ok := b.(Float)

		return ok && av.Equal(bv)
	case Bool:
		bv, ok := b.(Bool)

		return ok && av == bv
	case Unit:
		_, ok := b.(Unit)

		return ok
	case Null:
		_, ok := b.(Null)

		return ok
	case Bytes:
		bv, ok := b.(Bytes)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}

		return true
	case String:
		bv, ok := b.(String)

		return ok && av == bv
	case Seq:
		bv, ok := b.(Seq)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}

		return true
	case *Map:
		bv, ok := b.(*Map)

		return ok && av.Equal(bv)
	default:
		return false
	}
}

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind {
	return KindBool
}

func (v Bool) hashInto(d *hash.Digest) {
	if v {
		_, _ = d.Write([]byte{byte(KindBool), 1})
	} else {
		_, _ = d.Write([]byte{byte(KindBool), 0})
	}
}

// Null is the explicit-absence value.
type Null struct{}

func (Null) Kind() Kind {
	return KindNull
}

func (Null) hashInto(d *hash.Digest) {
	_, _ = d.Write([]byte{byte(KindNull)})
}

// Unit is the nothing-meaningful-to-store value. It is a distinct kind from
// Null at the value layer but shares its byte on the wire.
type Unit struct{}

func (Unit) Kind() Kind {
	return KindUnit
}

func (Unit) hashInto(d *hash.Digest) {
	_, _ = d.Write([]byte{byte(KindUnit)})
}

// Bytes is a byte string value.
type Bytes []byte

func (Bytes) Kind() Kind {
	return KindBytes
}

func (v Bytes) hashInto(d *hash.Digest) {
	_, _ = d.Write([]byte{byte(KindBytes)})
	_, _ = d.Write(v)
}

// String is a UTF-8 string value.
type String string

func (String) Kind() Kind {
	return KindString
}

func (v String) hashInto(d *hash.Digest) {
	_, _ = d.Write([]byte{byte(KindString)})
	_, _ = d.WriteString(string(v))
}

// Seq is an ordered sequence of values.
type Seq []Value

func (Seq) Kind() Kind {
	return KindSeq
}

func (v Seq) hashInto(d *hash.Digest) {
	_, _ = d.Write([]byte{byte(KindSeq)})
	for _, elem := range v {
		elem.hashInto(d)
	}
	_, _ = d.Write([]byte{0})
}
