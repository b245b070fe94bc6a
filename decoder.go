package lilliput

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/arloliu/lilliput/endian"
	"github.com/arloliu/lilliput/errs"
	"github.com/arloliu/lilliput/floatpack"
	"github.com/arloliu/lilliput/header"
	"github.com/arloliu/lilliput/internal/options"
	"github.com/arloliu/lilliput/internal/pool"
	"github.com/arloliu/lilliput/numpack"
	"github.com/arloliu/lilliput/stream"
	"github.com/arloliu/lilliput/value"
)

// be decodes the zero-padded big-endian bodies of extended headers.
var be = endian.GetBigEndianEngine()

// remainingReader is implemented by readers that know how many bytes are
// left; the decoder uses it as a sanity bound on declared lengths.
type remainingReader interface {
	Remaining() int
}

// Decoder reads lilliput-encoded values from a stream.Reader.
//
// Every failure carries the byte position at which it manifested; the
// position of an end-of-file error is the offset of the first unreadable
// byte. A Decoder is not safe for concurrent use. After a mid-container
// error the container state is undefined; drop the decoder.
type Decoder struct {
	r      stream.Reader
	config *DecoderConfig

	pos     int
	peeked  int16 // buffered next byte, or -1
	depth   int   // remaining container budget when bounded
	stack   []containerState
	scratch *pool.ByteBuffer
}

// NewDecoder creates a decoder reading from r with the default configuration
// modified by opts.
func NewDecoder(r stream.Reader, opts ...DecoderOption) (*Decoder, error) {
	config := NewDecoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &Decoder{
		r:       r,
		config:  config,
		peeked:  -1,
		depth:   config.MaxDepth,
		scratch: pool.GetScratchBuffer(),
	}, nil
}

// Release returns the decoder's scratch buffer to its pool. The decoder and
// any copied references obtained from it must not be used afterwards.
func (d *Decoder) Release() {
	pool.PutScratchBuffer(d.scratch)
	d.scratch = nil
}

// Pos returns the byte offset of the next unread byte.
func (d *Decoder) Pos() int {
	return d.pos
}

// PeekMarker inspects the next header byte without consuming it.
func (d *Decoder) PeekMarker() (header.Marker, error) {
	b, err := d.peekByte()
	if err != nil {
		return header.MarkerReserved, err
	}

	return header.Detect(b), nil
}

// MARK: - Values

// DecodeValue decodes the next value of whatever kind the stream declares.
// Nested containers are bounded by the configured depth limit.
func (d *Decoder) DecodeValue() (value.Value, error) {
	marker, err := d.PeekMarker()
	if err != nil {
		return nil, err
	}

	switch marker {
	case header.MarkerInt:
		return d.DecodeIntValue()
	case header.MarkerFloat:
		return d.DecodeFloatValue()
	case header.MarkerBool:
		v, err := d.DecodeBool()
		if err != nil {
			return nil, err
		}

		return value.Bool(v), nil
	case header.MarkerNull:
		// Unit shares the null byte; generic decoding yields null.
		if err := d.DecodeNull(); err != nil {
			return nil, err
		}

		return value.Null{}, nil
	case header.MarkerBytes:
		v, err := d.DecodeBytes()
		if err != nil {
			return nil, err
		}

		return value.Bytes(v), nil
	case header.MarkerString:
		v, err := d.DecodeString()
		if err != nil {
			return nil, err
		}

		return value.String(v), nil
	case header.MarkerSeq:
		return d.decodeSeqValue()
	case header.MarkerMap:
		return d.decodeMapValue()
	default:
		return nil, errs.InvalidValue("value header", "reserved marker byte", d.pos)
	}
}

// DecodeBool decodes a boolean.
func (d *Decoder) DecodeBool() (bool, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return false, err
	}

	h, err := header.DecodeBool(b)
	if err != nil {
		return false, positioned(err, headerPos)
	}
	if err := d.onDecodeValue(); err != nil {
		return false, err
	}

	return h.Value(), nil
}

// DecodeNull decodes an explicit-absence value.
func (d *Decoder) DecodeNull() error {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return err
	}

	if _, err := header.DecodeNull(b); err != nil {
		return positioned(err, headerPos)
	}

	return d.onDecodeValue()
}

// DecodeUnit decodes a unit value; on the wire it is identical to null.
func (d *Decoder) DecodeUnit() error {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return err
	}

	if _, err := header.DecodeUnit(b); err != nil {
		return positioned(err, headerPos)
	}

	return d.onDecodeValue()
}

// DecodeIntValue decodes an integer of whatever width and signedness the
// stream declares. The physical subtype is the smallest one covering the
// declared width.
func (d *Decoder) DecodeIntValue() (value.Int, error) {
	v, _, err := d.decodeIntValueAndPos()

	return v, err
}

// DecodeInt8 decodes an integer into an int8, failing with a
// number-out-of-range error when the decoded value does not fit.
func (d *Decoder) DecodeInt8() (int8, error) {
	s, err := d.decodeSignedInRange(math.MinInt8, math.MaxInt8)

	return int8(s), err
}

// DecodeInt16 decodes an integer into an int16.
func (d *Decoder) DecodeInt16() (int16, error) {
	s, err := d.decodeSignedInRange(math.MinInt16, math.MaxInt16)

	return int16(s), err
}

// DecodeInt32 decodes an integer into an int32.
func (d *Decoder) DecodeInt32() (int32, error) {
	s, err := d.decodeSignedInRange(math.MinInt32, math.MaxInt32)

	return int32(s), err
}

// DecodeInt64 decodes an integer into an int64.
func (d *Decoder) DecodeInt64() (int64, error) {
	return d.decodeSignedInRange(math.MinInt64, math.MaxInt64)
}

// DecodeUint8 decodes an integer into a uint8.
func (d *Decoder) DecodeUint8() (uint8, error) {
	u, err := d.decodeUnsignedInRange(math.MaxUint8)

	return uint8(u), err
}

// DecodeUint16 decodes an integer into a uint16.
func (d *Decoder) DecodeUint16() (uint16, error) {
	u, err := d.decodeUnsignedInRange(math.MaxUint16)

	return uint16(u), err
}

// DecodeUint32 decodes an integer into a uint32.
func (d *Decoder) DecodeUint32() (uint32, error) {
	u, err := d.decodeUnsignedInRange(math.MaxUint32)

	return uint32(u), err
}

// DecodeUint64 decodes an integer into a uint64.
func (d *Decoder) DecodeUint64() (uint64, error) {
	return d.decodeUnsignedInRange(math.MaxUint64)
}

// DecodeFloatValue decodes a float. Packed widths up to four bytes widen to
// the 32-bit subtype, wider ones to the 64-bit subtype.
func (d *Decoder) DecodeFloatValue() (value.Float, error) {
	packed, err := d.decodeFloatPacked()
	if err != nil {
		return value.Float{}, err
	}

	if packed.Width() <= floatpack.W32 {
		return value.Float32(packed.Float32()), nil
	}

	return value.Float64(packed.Float64()), nil
}

// DecodeFloat32 decodes a float into a float32, narrowing natively when the
// stream carries a wider value.
func (d *Decoder) DecodeFloat32() (float32, error) {
	packed, err := d.decodeFloatPacked()
	if err != nil {
		return 0, err
	}

	return packed.Float32(), nil
}

// DecodeFloat64 decodes a float into a float64.
func (d *Decoder) DecodeFloat64() (float64, error) {
	packed, err := d.decodeFloatPacked()
	if err != nil {
		return 0, err
	}

	return packed.Float64(), nil
}

// DecodeBytes decodes a byte string into a fresh slice owned by the caller.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return nil, err
	}

	h, err := header.DecodeBytes(b)
	if err != nil {
		return nil, positioned(err, headerPos)
	}

	length, err := d.readLength(h.LenWidth())
	if err != nil {
		return nil, err
	}
	if err := d.checkRemaining(length); err != nil {
		return nil, err
	}

	out := make([]byte, length)
	if err := d.readInto(out); err != nil {
		return nil, err
	}
	if err := d.onDecodeValue(); err != nil {
		return nil, err
	}

	return out, nil
}

// DecodeString decodes a UTF-8 string, copying it out of the source.
func (d *Decoder) DecodeString() (string, error) {
	ref, _, err := d.decodeStringRef()
	if err != nil {
		return "", err
	}

	return string(ref.Bytes()), nil
}

// DecodeStringRef decodes a UTF-8 string without copying when the source
// supports borrowing. A borrowed reference stays valid as long as the
// source; a copied reference only until the decoder's next read.
func (d *Decoder) DecodeStringRef() (stream.Reference, error) {
	ref, _, err := d.decodeStringRef()

	return ref, err
}

// DecodeSeqStart reads a sequence header and returns the declared element
// count. Decode exactly that many values, then call DecodeSeqEnd.
func (d *Decoder) DecodeSeqStart() (int, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}

	h, err := header.DecodeSeq(b)
	if err != nil {
		return 0, positioned(err, headerPos)
	}

	length := h.CompactLen()
	if !h.IsCompact() {
		length, err = d.readLength(h.LenWidth())
		if err != nil {
			return 0, err
		}
	}

	// Sanity bound: each element takes at least one byte.
	if err := d.checkRemaining(length); err != nil {
		return 0, err
	}
	if err := d.enterContainer(headerPos); err != nil {
		return 0, err
	}

	d.stack = append(d.stack, containerState{kind: containerSeq, declared: length})

	return length, nil
}

// DecodeSeqEnd closes the innermost sequence, failing unless exactly the
// declared number of elements was decoded.
func (d *Decoder) DecodeSeqEnd() error {
	if err := d.popContainer(containerSeq); err != nil {
		return err
	}
	d.leaveContainer()

	return d.onDecodeValue()
}

// DecodeMapStart reads a map header and returns the declared entry count.
// Decode a key and a value for each entry, then call DecodeMapEnd.
func (d *Decoder) DecodeMapStart() (int, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}

	h, err := header.DecodeMap(b)
	if err != nil {
		return 0, positioned(err, headerPos)
	}

	length := h.CompactLen()
	if !h.IsCompact() {
		length, err = d.readLength(h.LenWidth())
		if err != nil {
			return 0, err
		}
	}

	if err := d.enterContainer(headerPos); err != nil {
		return 0, err
	}

	d.stack = append(d.stack, containerState{kind: containerMap, declared: 2 * length})

	return length, nil
}

// DecodeMapEnd closes the innermost map.
func (d *Decoder) DecodeMapEnd() error {
	if err := d.popContainer(containerMap); err != nil {
		return err
	}
	d.leaveContainer()

	return d.onDecodeValue()
}

// DecodeHeader reads and returns the next header of whatever kind the stream
// declares, consuming only the header byte.
func (d *Decoder) DecodeHeader() (header.Header, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return nil, err
	}

	h, err := header.Decode(b)
	if err != nil {
		return nil, positioned(err, headerPos)
	}

	return h, nil
}

// SkipValue discards the next value without materializing it. Container
// nesting counts against the depth limit as usual.
func (d *Decoder) SkipValue() error {
	marker, err := d.PeekMarker()
	if err != nil {
		return err
	}

	switch marker {
	case header.MarkerBool:
		_, err = d.DecodeBool()

		return err
	case header.MarkerNull:
		return d.DecodeNull()
	case header.MarkerInt:
		headerPos := d.pos
		b, _ := d.readByte()
		h, err := header.DecodeInt(b)
		if err != nil {
			return positioned(err, headerPos)
		}
		if err := d.skip(h.Width()); err != nil {
			return err
		}

		return d.onDecodeValue()
	case header.MarkerFloat:
		headerPos := d.pos
		b, _ := d.readByte()
		h, err := header.DecodeFloat(b)
		if err != nil {
			return positioned(err, headerPos)
		}
		if err := d.skip(int(h.Width())); err != nil {
			return err
		}

		return d.onDecodeValue()
	case header.MarkerString:
		_, _, err := d.decodeStringBytes()

		return err
	case header.MarkerBytes:
		headerPos := d.pos
		b, _ := d.readByte()
		h, err := header.DecodeBytes(b)
		if err != nil {
			return positioned(err, headerPos)
		}
		length, err := d.readLength(h.LenWidth())
		if err != nil {
			return err
		}
		if err := d.skip(length); err != nil {
			return err
		}

		return d.onDecodeValue()
	case header.MarkerSeq:
		length, err := d.DecodeSeqStart()
		if err != nil {
			return err
		}
		for range length {
			if err := d.SkipValue(); err != nil {
				return err
			}
		}

		return d.DecodeSeqEnd()
	case header.MarkerMap:
		length, err := d.DecodeMapStart()
		if err != nil {
			return err
		}
		for range 2 * length {
			if err := d.SkipValue(); err != nil {
				return err
			}
		}

		return d.DecodeMapEnd()
	default:
		return errs.InvalidValue("value header", "reserved marker byte", d.pos)
	}
}

// MARK: - Internal

func (d *Decoder) decodeSeqValue() (value.Value, error) {
	length, err := d.DecodeSeqStart()
	if err != nil {
		return nil, err
	}

	seq := make(value.Seq, 0, length)
	for range length {
		elem, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		seq = append(seq, elem)
	}

	if err := d.DecodeSeqEnd(); err != nil {
		return nil, err
	}

	return seq, nil
}

func (d *Decoder) decodeMapValue() (value.Value, error) {
	length, err := d.DecodeMapStart()
	if err != nil {
		return nil, err
	}

	m := value.NewMapCap(length)
	for range length {
		key, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		val, err := d.DecodeValue()
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}

	if err := d.DecodeMapEnd(); err != nil {
		return nil, err
	}

	return m, nil
}

// decodeIntValueAndPos returns the decoded integer and its body position for
// range-error reporting.
func (d *Decoder) decodeIntValueAndPos() (value.Int, int, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return value.Int{}, headerPos, err
	}

	h, err := header.DecodeInt(b)
	if err != nil {
		return value.Int{}, headerPos, positioned(err, headerPos)
	}

	bodyPos := d.pos

	if h.IsCompact() {
		var v value.Int
		if h.IsSigned() {
			v = value.Int8(numpack.UnZigZag8(h.CompactValue()))
		} else {
			v = value.Uint8(h.CompactValue())
		}
		if err := d.onDecodeValue(); err != nil {
			return value.Int{}, bodyPos, err
		}

		return v, bodyPos, nil
	}

	width := h.Width()

	var padded [8]byte
	if err := d.readInto(padded[8-width:]); err != nil {
		return value.Int{}, bodyPos, err
	}

	u := be.Uint64(padded[:])

	var v value.Int
	if h.IsSigned() {
		switch {
		case width == 1:
			v = value.Int8(numpack.UnZigZag8(uint8(u)))
		case width == 2:
			v = value.Int16(numpack.UnZigZag16(uint16(u)))
		case width <= 4:
			v = value.Int32(numpack.UnZigZag32(uint32(u)))
		default:
			v = value.Int64(numpack.UnZigZag64(u))
		}
	} else {
		switch {
		case width == 1:
			v = value.Uint8(uint8(u))
		case width == 2:
			v = value.Uint16(uint16(u))
		case width <= 4:
			v = value.Uint32(uint32(u))
		default:
			v = value.Uint64(u)
		}
	}

	if err := d.onDecodeValue(); err != nil {
		return value.Int{}, bodyPos, err
	}

	return v, bodyPos, nil
}

func (d *Decoder) decodeSignedInRange(minVal, maxVal int64) (int64, error) {
	v, bodyPos, err := d.decodeIntValueAndPos()
	if err != nil {
		return 0, err
	}

	s, ok := v.Int64Value()
	if !ok || s < minVal || s > maxVal {
		return 0, errs.NumberOutOfRange(bodyPos)
	}

	return s, nil
}

func (d *Decoder) decodeUnsignedInRange(maxVal uint64) (uint64, error) {
	v, bodyPos, err := d.decodeIntValueAndPos()
	if err != nil {
		return 0, err
	}

	u, ok := v.Uint64Value()
	if !ok || u > maxVal {
		return 0, errs.NumberOutOfRange(bodyPos)
	}

	return u, nil
}

func (d *Decoder) decodeFloatPacked() (floatpack.PackedFloat, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return floatpack.PackedFloat{}, err
	}

	h, err := header.DecodeFloat(b)
	if err != nil {
		return floatpack.PackedFloat{}, positioned(err, headerPos)
	}

	width := int(h.Width())

	var buf [8]byte
	if err := d.readInto(buf[:width]); err != nil {
		return floatpack.PackedFloat{}, err
	}

	packed := floatpack.FromBEBytes(h.Width(), buf[:width])
	if err := d.onDecodeValue(); err != nil {
		return floatpack.PackedFloat{}, err
	}

	return packed, nil
}

// decodeStringBytes reads string framing and body without UTF-8 validation,
// returning the body reference and its start offset.
func (d *Decoder) decodeStringBytes() (stream.Reference, int, error) {
	headerPos := d.pos
	b, err := d.readByte()
	if err != nil {
		return stream.Reference{}, headerPos, err
	}

	h, err := header.DecodeString(b)
	if err != nil {
		return stream.Reference{}, headerPos, positioned(err, headerPos)
	}

	length := h.CompactLen()
	if !h.IsCompact() {
		length, err = d.readLength(h.LenWidth())
		if err != nil {
			return stream.Reference{}, headerPos, err
		}
	}

	bodyPos := d.pos

	// Clear the scratch buffer before each body so copied references are
	// unambiguous.
	d.scratch.Reset()

	ref, err := d.read(length)
	if err != nil {
		return stream.Reference{}, bodyPos, err
	}
	if err := d.onDecodeValue(); err != nil {
		return stream.Reference{}, bodyPos, err
	}

	return ref, bodyPos, nil
}

func (d *Decoder) decodeStringRef() (stream.Reference, int, error) {
	ref, bodyPos, err := d.decodeStringBytes()
	if err != nil {
		return stream.Reference{}, bodyPos, err
	}

	if k := validUTF8Prefix(ref.Bytes()); k >= 0 {
		return stream.Reference{}, bodyPos, errs.Utf8(bodyPos + k + 1)
	}

	return ref, bodyPos, nil
}

// validUTF8Prefix returns the index of the first invalid byte, or -1 when the
// whole input is valid UTF-8.
func validUTF8Prefix(b []byte) int {
	i := 0
	for i < len(b) {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}

		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}

	return -1
}

// readLength reads a big-endian length of the given width and checks that it
// is representable as a non-negative int.
func (d *Decoder) readLength(width int) (int, error) {
	lenPos := d.pos

	var padded [8]byte
	if err := d.readInto(padded[8-width:]); err != nil {
		return 0, err
	}

	u := be.Uint64(padded[:])
	if u > math.MaxInt {
		return 0, errs.InvalidValue(
			"length representable on this platform",
			strconv.FormatUint(u, 10),
			lenPos,
		)
	}

	return int(u), nil
}

// checkRemaining fails early when the source cannot possibly hold n more
// bytes. Only readers that know their remaining size are consulted.
func (d *Decoder) checkRemaining(n int) error {
	if rr, ok := d.r.(remainingReader); ok && n > rr.Remaining() {
		return errs.EndOfFile(d.pos)
	}

	return nil
}

func (d *Decoder) enterContainer(headerPos int) error {
	if d.config.MaxDepth == 0 {
		return nil
	}
	if d.depth == 0 {
		return errs.DepthLimitExceeded(headerPos)
	}
	d.depth--

	return nil
}

func (d *Decoder) leaveContainer() {
	if d.config.MaxDepth == 0 {
		return
	}
	if d.depth < d.config.MaxDepth {
		d.depth++
	}
}

// onDecodeValue charges one emission to the innermost open container.
func (d *Decoder) onDecodeValue() error {
	if len(d.stack) == 0 {
		return nil
	}

	top := &d.stack[len(d.stack)-1]
	if top.emitted >= top.declared {
		return errs.InvalidLength(
			strconv.Itoa(top.declared)+" emissions in "+top.kind.String(),
			"more",
			d.pos,
		)
	}
	top.emitted++

	return nil
}

func (d *Decoder) popContainer(kind containerKind) error {
	if len(d.stack) == 0 {
		return errs.InvalidType(kind.String(), "no open container", d.pos)
	}

	top := d.stack[len(d.stack)-1]
	if top.kind != kind {
		return errs.InvalidType(kind.String(), top.kind.String(), d.pos)
	}
	if top.emitted != top.declared {
		return errs.InvalidLength(strconv.Itoa(top.declared), strconv.Itoa(top.emitted), d.pos)
	}

	d.stack = d.stack[:len(d.stack)-1]

	return nil
}

func (d *Decoder) peekByte() (byte, error) {
	if d.peeked >= 0 {
		return byte(d.peeked), nil
	}

	b, err := d.r.ReadByte()
	if err != nil {
		return 0, positioned(err, d.pos)
	}
	d.peeked = int16(b)

	return b, nil
}

func (d *Decoder) readByte() (byte, error) {
	if d.peeked >= 0 {
		b := byte(d.peeked)
		d.peeked = -1
		d.pos++

		return b, nil
	}

	b, err := d.r.ReadByte()
	if err != nil {
		return 0, positioned(err, d.pos)
	}
	d.pos++

	return b, nil
}

func (d *Decoder) readInto(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	if d.peeked >= 0 {
		buf[0] = byte(d.peeked)
		d.peeked = -1
		d.pos++
		buf = buf[1:]
		if len(buf) == 0 {
			return nil
		}
	}

	if err := d.r.ReadInto(buf); err != nil {
		return positioned(err, d.pos)
	}
	d.pos += len(buf)

	return nil
}

func (d *Decoder) read(n int) (stream.Reference, error) {
	if d.peeked >= 0 {
		// A buffered peek byte forces the copy path so the reference stays
		// contiguous.
		d.scratch.Reset()
		out := d.scratch.ExtendOrGrow(n)
		if err := d.readInto(out); err != nil {
			return stream.Reference{}, err
		}

		return stream.CopiedRef(out), nil
	}

	ref, err := d.r.Read(n, d.scratch)
	if err != nil {
		return stream.Reference{}, positioned(err, d.pos)
	}
	d.pos += n

	return ref, nil
}

func (d *Decoder) skip(n int) error {
	for n > 0 {
		chunk := n
		if chunk > 512 {
			chunk = 512
		}
		d.scratch.Reset()
		if err := d.readInto(d.scratch.ExtendOrGrow(chunk)); err != nil {
			return err
		}
		n -= chunk
	}

	return nil
}

// positioned stamps pos onto errors that do not carry one yet.
func positioned(err error, pos int) error {
	if e, ok := errs.AsError(err); ok {
		return e.WithPos(pos)
	}

	return err
}
