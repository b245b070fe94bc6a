// Package lilliput implements a self-describing binary serialization format
// with aggressive width compaction for common small values.
//
// Lilliput encodes a fixed, closed set of value kinds — integers, packed
// floating-point numbers, booleans, null, unit, byte strings, UTF-8 strings,
// sequences and maps — into a compact, type-tagged byte stream. The first
// byte of every value identifies its kind by the position of its highest set
// bit and carries enough metadata to determine the length of the rest of the
// value, so streams decode in a single pass with no schema.
//
// # Core Features
//
//   - Self-describing: every value starts with a marker byte; a stream is
//     just a concatenation of encoded values
//   - Width compaction: integers shrink to their minimal byte width (zig-zag
//     for signed), floats truncate through eight packed widths under a
//     configurable loss validator, small values and lengths fold into the
//     header byte itself
//   - Streaming: containers are encoded and decoded element by element with
//     explicit start/end calls and positional error reporting
//   - Zero-copy reads: slice-backed sources hand out borrowed references
//
// # Basic Usage
//
// Encoding and decoding a value tree:
//
//	import (
//	    "github.com/arloliu/lilliput"
//	    "github.com/arloliu/lilliput/value"
//	)
//
//	m := value.NewMap()
//	m.Set(value.String("name"), value.String("ada"))
//	m.Set(value.String("score"), value.Float64(99.5))
//
//	data, _ := lilliput.Encode(m)
//	decoded, _ := lilliput.Decode(data)
//
// Streaming with explicit encoder calls:
//
//	w := stream.NewBufferWriter()
//	enc, _ := lilliput.NewEncoder(w)
//	_ = enc.EncodeSeqStart(2)
//	_ = enc.EncodeUint64(1)
//	_ = enc.EncodeString("two")
//	_ = enc.EncodeSeqEnd()
//	data := w.Detach()
//
// All multi-byte fields are big-endian. Encoders and decoders are not safe
// for concurrent use; distinct instances on distinct sources are independent.
package lilliput

import (
	"github.com/arloliu/lilliput/stream"
	"github.com/arloliu/lilliput/value"
)

// Encode encodes a single value into a fresh byte slice using the default
// configuration modified by opts.
func Encode(v value.Value, opts ...EncoderOption) ([]byte, error) {
	w := stream.NewBufferWriter()

	enc, err := NewEncoder(w, opts...)
	if err != nil {
		w.Release()
		return nil, err
	}

	if err := enc.EncodeValue(v); err != nil {
		w.Release()
		return nil, err
	}

	return w.Detach(), nil
}

// Decode decodes a single value from data using the default configuration
// modified by opts.
func Decode(data []byte, opts ...DecoderOption) (value.Value, error) {
	dec, err := NewDecoder(stream.NewSliceReader(data), opts...)
	if err != nil {
		return nil, err
	}
	defer dec.Release()

	return dec.DecodeValue()
}
