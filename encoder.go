package lilliput

import (
	"io"
	"strconv"

	"github.com/arloliu/lilliput/errs"
	"github.com/arloliu/lilliput/floatpack"
	"github.com/arloliu/lilliput/header"
	"github.com/arloliu/lilliput/internal/options"
	"github.com/arloliu/lilliput/numpack"
	"github.com/arloliu/lilliput/stream"
	"github.com/arloliu/lilliput/value"
)

type containerKind uint8

const (
	containerSeq containerKind = iota + 1
	containerMap
)

func (k containerKind) String() string {
	if k == containerMap {
		return "map"
	}

	return "sequence"
}

// containerState tracks one pending Seq/Map: how many emissions it declared
// and how many it has seen. Maps count key and value separately, two per
// entry.
type containerState struct {
	kind     containerKind
	declared int
	emitted  int
}

// Encoder writes lilliput-encoded values to a stream.Writer.
//
// Containers are streamed: declare the length with EncodeSeqStart or
// EncodeMapStart, encode exactly that many elements (a map entry is a key
// emission followed by a value emission), then close with the matching end
// call. Encoding more elements than declared, or ending early, fails.
//
// On a write error the encoder aborts; bytes already accepted by the sink
// stay written. An Encoder is not safe for concurrent use.
type Encoder struct {
	w      stream.Writer
	config *EncoderConfig
	stack  []containerState
	buf    []byte // reused per-value staging buffer
}

// NewEncoder creates an encoder writing to w with the default configuration
// modified by opts.
func NewEncoder(w stream.Writer, opts ...EncoderOption) (*Encoder, error) {
	config := NewEncoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Encoder{
		w:      w,
		config: config,
		buf:    make([]byte, 0, 16),
	}, nil
}

// Config returns the encoder's configuration. Mutating it mid-stream is the
// caller's responsibility.
func (e *Encoder) Config() *EncoderConfig {
	return e.config
}

// Flush flushes the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// Finish verifies that no container is left open and flushes. The encoder
// remains usable for further top-level values.
func (e *Encoder) Finish() error {
	if len(e.stack) > 0 {
		top := e.stack[len(e.stack)-1]

		return errs.InvalidLength(
			strconv.Itoa(top.declared)+" emissions in open "+top.kind.String(),
			strconv.Itoa(top.emitted),
			errs.NoPos,
		)
	}

	return e.Flush()
}

// MARK: - Values

// EncodeValue encodes any value, dispatching on its kind.
func (e *Encoder) EncodeValue(v value.Value) error {
	switch val := v.(type) {
	case value.Int:
		return e.encodeIntValue(val)
	case value.Float:
		if val.Is64() {
			return e.EncodeFloat64(val.Float64Value())
		}

		return e.EncodeFloat32(val.Float32Value())
	case value.Bool:
		return e.EncodeBool(bool(val))
	case value.Unit:
		return e.EncodeUnit()
	case value.Null:
		return e.EncodeNull()
	case value.Bytes:
		return e.EncodeBytes(val)
	case value.String:
		return e.EncodeString(string(val))
	case value.Seq:
		return e.encodeSeqValue(val)
	case *value.Map:
		return e.encodeMapValue(val)
	default:
		return errs.Uncategorized("unsupported value kind", errs.NoPos)
	}
}

// EncodeBool encodes a boolean; the value lives in the header byte.
func (e *Encoder) EncodeBool(v bool) error {
	if err := e.writeAll(append(e.staging(), header.NewBool(v).Encode())); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// EncodeNull encodes an explicit-absence value.
func (e *Encoder) EncodeNull() error {
	if err := e.writeAll(append(e.staging(), header.NullHeader{}.Encode())); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// EncodeUnit encodes a unit value. On the wire it is identical to null.
func (e *Encoder) EncodeUnit() error {
	if err := e.writeAll(append(e.staging(), header.UnitHeader{}.Encode())); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// EncodeInt8 encodes a signed 8-bit integer.
func (e *Encoder) EncodeInt8(v int8) error {
	return e.encodeInt(uint64(numpack.ZigZag8(v)), 1, true)
}

// EncodeInt16 encodes a signed 16-bit integer.
func (e *Encoder) EncodeInt16(v int16) error {
	return e.encodeInt(uint64(numpack.ZigZag16(v)), 2, true)
}

// EncodeInt32 encodes a signed 32-bit integer.
func (e *Encoder) EncodeInt32(v int32) error {
	return e.encodeInt(uint64(numpack.ZigZag32(v)), 4, true)
}

// EncodeInt64 encodes a signed 64-bit integer.
func (e *Encoder) EncodeInt64(v int64) error {
	return e.encodeInt(numpack.ZigZag64(v), 8, true)
}

// EncodeUint8 encodes an unsigned 8-bit integer.
func (e *Encoder) EncodeUint8(v uint8) error {
	return e.encodeInt(uint64(v), 1, false)
}

// EncodeUint16 encodes an unsigned 16-bit integer.
func (e *Encoder) EncodeUint16(v uint16) error {
	return e.encodeInt(uint64(v), 2, false)
}

// EncodeUint32 encodes an unsigned 32-bit integer.
func (e *Encoder) EncodeUint32(v uint32) error {
	return e.encodeInt(uint64(v), 4, false)
}

// EncodeUint64 encodes an unsigned 64-bit integer.
func (e *Encoder) EncodeUint64(v uint64) error {
	return e.encodeInt(v, 8, false)
}

// EncodeFloat32 encodes a float32, packed per the configured policy and
// validator.
func (e *Encoder) EncodeFloat32(f float32) error {
	var packed floatpack.PackedFloat
	switch e.config.FloatPacking {
	case PackingNone:
		packed = floatpack.FromFloat32(f)
	case PackingNative:
		packed = floatpack.PackNative32(f, e.config.Float32Validator)
	default:
		packed = floatpack.PackOptimal32(f, e.config.Float32Validator)
	}

	return e.encodeFloatPacked(packed)
}

// EncodeFloat64 encodes a float64, packed per the configured policy and
// validator.
func (e *Encoder) EncodeFloat64(f float64) error {
	var packed floatpack.PackedFloat
	switch e.config.FloatPacking {
	case PackingNone:
		packed = floatpack.FromFloat64(f)
	case PackingNative:
		packed = floatpack.PackNative64(f, e.config.Float64Validator)
	default:
		packed = floatpack.PackOptimal64(f, e.config.Float64Validator)
	}

	return e.encodeFloatPacked(packed)
}

// EncodeBytes encodes a byte string.
func (e *Encoder) EncodeBytes(v []byte) error {
	if err := e.writeBytesFraming(len(v)); err != nil {
		return err
	}
	if err := e.writeAll(v); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// EncodeString encodes a UTF-8 string. The bytes are written as-is; encoding
// does not re-validate them.
func (e *Encoder) EncodeString(v string) error {
	if err := e.writeStringFraming(len(v)); err != nil {
		return err
	}
	if err := e.writeAll([]byte(v)); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// EncodeSeqStart declares a sequence of length elements. Every element must
// be encoded before EncodeSeqEnd.
func (e *Encoder) EncodeSeqStart(length int) error {
	if length < 0 {
		return errs.UnknownLength()
	}
	if err := e.writeSeqFraming(length); err != nil {
		return err
	}

	e.stack = append(e.stack, containerState{kind: containerSeq, declared: length})

	return nil
}

// EncodeSeqEnd closes the innermost sequence, failing unless exactly the
// declared number of elements was encoded.
func (e *Encoder) EncodeSeqEnd() error {
	if err := e.popContainer(containerSeq); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// EncodeMapStart declares a map of length entries. Every entry is a key
// emission followed by a value emission.
func (e *Encoder) EncodeMapStart(length int) error {
	if length < 0 {
		return errs.UnknownLength()
	}
	if err := e.writeMapFraming(length); err != nil {
		return err
	}

	e.stack = append(e.stack, containerState{kind: containerMap, declared: 2 * length})

	return nil
}

// EncodeMapEnd closes the innermost map, failing unless exactly the declared
// number of keys and values was encoded.
func (e *Encoder) EncodeMapEnd() error {
	if err := e.popContainer(containerMap); err != nil {
		return err
	}

	return e.onEncodeValue()
}

// MARK: - Headers
//
// The header-only entry points let an object-mapping layer emit a header and
// stream its body through the writer. They bypass container accounting.

// EncodeIntHeader emits an integer header byte.
func (e *Encoder) EncodeIntHeader(h header.IntHeader) error {
	return e.writeAll(append(e.staging(), h.Encode()))
}

// EncodeFloatHeader emits a float header byte.
func (e *Encoder) EncodeFloatHeader(h header.FloatHeader) error {
	return e.writeAll(append(e.staging(), h.Encode()))
}

// EncodeBoolHeader emits a bool header byte.
func (e *Encoder) EncodeBoolHeader(h header.BoolHeader) error {
	return e.writeAll(append(e.staging(), h.Encode()))
}

// EncodeNullHeader emits a null header byte.
func (e *Encoder) EncodeNullHeader() error {
	return e.writeAll(append(e.staging(), header.NullHeader{}.Encode()))
}

// EncodeStringHeader emits full string framing: the header byte and, for the
// extended form, the length bytes. Exactly length body bytes must follow.
func (e *Encoder) EncodeStringHeader(length int) error {
	return e.writeStringFraming(length)
}

// EncodeBytesHeader emits full byte-string framing.
func (e *Encoder) EncodeBytesHeader(length int) error {
	return e.writeBytesFraming(length)
}

// EncodeSeqHeader emits full sequence framing without opening a tracked
// container.
func (e *Encoder) EncodeSeqHeader(length int) error {
	return e.writeSeqFraming(length)
}

// EncodeMapHeader emits full map framing without opening a tracked container.
func (e *Encoder) EncodeMapHeader(length int) error {
	return e.writeMapFraming(length)
}

// MARK: - Internal

func (e *Encoder) encodeIntValue(v value.Int) error {
	if v.Signed() {
		s, _ := v.Int64Value()
		switch v.Width() {
		case 1:
			return e.EncodeInt8(int8(s))
		case 2:
			return e.EncodeInt16(int16(s))
		case 4:
			return e.EncodeInt32(int32(s))
		default:
			return e.EncodeInt64(s)
		}
	}

	u, _ := v.Uint64Value()
	switch v.Width() {
	case 1:
		return e.EncodeUint8(uint8(u))
	case 2:
		return e.EncodeUint16(uint16(u))
	case 4:
		return e.EncodeUint32(uint32(u))
	default:
		return e.EncodeUint64(u)
	}
}

func (e *Encoder) encodeSeqValue(v value.Seq) error {
	if err := e.EncodeSeqStart(len(v)); err != nil {
		return err
	}
	for _, elem := range v {
		if err := e.EncodeValue(elem); err != nil {
			return err
		}
	}

	return e.EncodeSeqEnd()
}

func (e *Encoder) encodeMapValue(v *value.Map) error {
	if err := e.EncodeMapStart(v.Len()); err != nil {
		return err
	}
	for _, entry := range v.Entries() {
		if err := e.EncodeValue(entry.Key); err != nil {
			return err
		}
		if err := e.EncodeValue(entry.Value); err != nil {
			return err
		}
	}

	return e.EncodeMapEnd()
}

// encodeInt writes an integer body of unsigned magnitude u (zig-zag for
// signed sources) whose source type is nativeWidth bytes wide.
func (e *Encoder) encodeInt(u uint64, nativeWidth int, signed bool) error {
	var width int
	switch e.config.IntPacking {
	case PackingNone:
		width = nativeWidth
	case PackingNative:
		width = numpack.NativeWidth(u)
	default:
		width = numpack.OptimalWidth(u)
	}

	buf := e.staging()

	// A one-byte body small enough for the compact form needs no body at all.
	if width == 1 && u <= header.IntCompactMax {
		buf = append(buf, header.CompactInt(signed, uint8(u)).Encode())
	} else {
		buf = append(buf, header.ExtendedInt(signed, uint8(width)).Encode())
		buf = numpack.AppendBE(buf, u, width)
	}

	if err := e.writeAll(buf); err != nil {
		return err
	}

	return e.onEncodeValue()
}

func (e *Encoder) encodeFloatPacked(packed floatpack.PackedFloat) error {
	buf := append(e.staging(), header.NewFloat(packed.Width()).Encode())
	buf = packed.AppendBytes(buf)

	if err := e.writeAll(buf); err != nil {
		return err
	}

	return e.onEncodeValue()
}

func (e *Encoder) writeStringFraming(length int) error {
	var h header.StringHeader
	switch e.config.LengthPacking {
	case PackingNone:
		h = header.VerbatimString()
	case PackingNative:
		h = header.NativeString(length)
	default:
		h = header.OptimalString(length)
	}

	buf := append(e.staging(), h.Encode())
	if w := h.LenWidth(); w > 0 {
		buf = numpack.AppendBE(buf, uint64(length), w)
	}

	return e.writeAll(buf)
}

func (e *Encoder) writeSeqFraming(length int) error {
	var h header.SeqHeader
	switch e.config.LengthPacking {
	case PackingNone:
		h = header.VerbatimSeq()
	case PackingNative:
		h = header.NativeSeq(length)
	default:
		h = header.OptimalSeq(length)
	}

	buf := append(e.staging(), h.Encode())
	if w := h.LenWidth(); w > 0 {
		buf = numpack.AppendBE(buf, uint64(length), w)
	}

	return e.writeAll(buf)
}

func (e *Encoder) writeMapFraming(length int) error {
	var h header.MapHeader
	switch e.config.LengthPacking {
	case PackingNone:
		h = header.VerbatimMap()
	case PackingNative:
		h = header.NativeMap(length)
	default:
		h = header.OptimalMap(length)
	}

	buf := append(e.staging(), h.Encode())
	if w := h.LenWidth(); w > 0 {
		buf = numpack.AppendBE(buf, uint64(length), w)
	}

	return e.writeAll(buf)
}

func (e *Encoder) writeBytesFraming(length int) error {
	var h header.BytesHeader
	if e.config.LengthPacking == PackingNone {
		h = header.VerbatimBytes()
	} else {
		h = header.OptimalBytes(length)
	}

	buf := append(e.staging(), h.Encode())
	buf = numpack.AppendBE(buf, uint64(length), h.LenWidth())

	return e.writeAll(buf)
}

// onEncodeValue charges one emission to the innermost open container.
func (e *Encoder) onEncodeValue() error {
	if len(e.stack) == 0 {
		return nil
	}

	top := &e.stack[len(e.stack)-1]
	if top.emitted >= top.declared {
		return errs.InvalidLength(
			strconv.Itoa(top.declared)+" emissions in "+top.kind.String(),
			"more",
			errs.NoPos,
		)
	}
	top.emitted++

	return nil
}

func (e *Encoder) popContainer(kind containerKind) error {
	if len(e.stack) == 0 {
		return errs.InvalidType(kind.String(), "no open container", errs.NoPos)
	}

	top := e.stack[len(e.stack)-1]
	if top.kind != kind {
		return errs.InvalidType(kind.String(), top.kind.String(), errs.NoPos)
	}
	if top.emitted != top.declared {
		return errs.InvalidLength(strconv.Itoa(top.declared), strconv.Itoa(top.emitted), errs.NoPos)
	}

	e.stack = e.stack[:len(e.stack)-1]

	return nil
}

// staging returns the reset per-value staging buffer.
func (e *Encoder) staging() []byte {
	e.buf = e.buf[:0]

	return e.buf
}

func (e *Encoder) writeAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := e.w.Write(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.Io(io.ErrShortWrite, errs.NoPos)
		}
		buf = buf[n:]
	}

	return nil
}

