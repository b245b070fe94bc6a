package stream

import (
	"io"

	"github.com/arloliu/lilliput/errs"
	"github.com/arloliu/lilliput/internal/pool"
)

// Writer is the encoder's view of an output sink. Write may accept fewer
// bytes than offered; the encoder loops until the buffer is drained.
//
// Implementations are not safe for concurrent use.
type Writer interface {
	Write(buf []byte) (int, error)
	Flush() error
}

// BufferWriter accumulates output in a pooled growable buffer.
type BufferWriter struct {
	buf *pool.ByteBuffer
}

// NewBufferWriter creates an empty growable writer backed by the encode pool.
func NewBufferWriter() *BufferWriter {
	return &BufferWriter{buf: pool.GetEncodeBuffer()}
}

// Write appends buf, growing as needed. It never fails.
func (w *BufferWriter) Write(buf []byte) (int, error) {
	return w.buf.Write(buf)
}

// Flush is a no-op.
func (w *BufferWriter) Flush() error {
	return nil
}

// Len returns the number of buffered bytes.
func (w *BufferWriter) Len() int {
	return w.buf.Len()
}

// Bytes returns the buffered output. The slice aliases the internal buffer
// and is invalidated by Release.
func (w *BufferWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Detach returns a copy of the buffered output and releases the internal
// buffer back to the pool. The writer must not be used afterwards.
func (w *BufferWriter) Detach() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	w.Release()

	return out
}

// Release returns the internal buffer to the pool. The writer must not be
// used afterwards.
func (w *BufferWriter) Release() {
	pool.PutEncodeBuffer(w.buf)
	w.buf = nil
}

// SliceWriter writes into a fixed pre-allocated slice and fails on overflow.
type SliceWriter struct {
	buf []byte
	pos int
}

// NewSliceWriter creates a writer over buf.
func NewSliceWriter(buf []byte) *SliceWriter {
	return &SliceWriter{buf: buf}
}

// Write copies buf into the remaining space, failing when it does not fit.
func (w *SliceWriter) Write(buf []byte) (int, error) {
	if len(buf) > len(w.buf)-w.pos {
		return 0, errs.EndOfFile(errs.NoPos)
	}

	copy(w.buf[w.pos:], buf)
	w.pos += len(buf)

	return len(buf), nil
}

// Flush is a no-op.
func (w *SliceWriter) Flush() error {
	return nil
}

// Len returns the number of bytes written so far.
func (w *SliceWriter) Len() int {
	return w.pos
}

// Bytes returns the written prefix of the backing slice.
func (w *SliceWriter) Bytes() []byte {
	return w.buf[:w.pos]
}

// IOWriter forwards writes to an io.Writer.
type IOWriter struct {
	w io.Writer
}

// NewIOWriter creates a writer over w.
func NewIOWriter(w io.Writer) *IOWriter {
	return &IOWriter{w: w}
}

// Write forwards to the underlying writer, wrapping failures.
func (w *IOWriter) Write(buf []byte) (int, error) {
	n, err := w.w.Write(buf)
	if err != nil {
		return n, errs.Io(err, errs.NoPos)
	}

	return n, nil
}

// Flush flushes the underlying writer when it supports flushing.
func (w *IOWriter) Flush() error {
	type flusher interface {
		Flush() error
	}

	if f, ok := w.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errs.Io(err, errs.NoPos)
		}
	}

	return nil
}
