// Package stream provides the reader and writer abstractions underneath the
// lilliput encoder and decoder.
//
// Readers hand out either borrowed slices into the source (zero-copy, for
// slice-backed sources) or slices copied into a caller-supplied scratch
// buffer (for stream-backed sources). The Reference tag tells the caller
// which it got, so borrowed data can outlive the scratch buffer and copied
// data cannot.
package stream

import (
	"io"

	"github.com/arloliu/lilliput/errs"
	"github.com/arloliu/lilliput/internal/pool"
)

// Reference is the result of a bulk read: a byte slice tagged with whether it
// borrows from the source or was copied into scratch.
type Reference struct {
	bytes    []byte
	borrowed bool
}

// BorrowedRef tags b as borrowed from the source.
func BorrowedRef(b []byte) Reference {
	return Reference{bytes: b, borrowed: true}
}

// CopiedRef tags b as copied into scratch.
func CopiedRef(b []byte) Reference {
	return Reference{bytes: b}
}

// Bytes returns the referenced bytes. For a copied reference they alias the
// scratch buffer and are only valid until its next reuse.
func (r Reference) Bytes() []byte {
	return r.bytes
}

// IsBorrowed reports whether the bytes borrow from the underlying source.
func (r Reference) IsBorrowed() bool {
	return r.borrowed
}

// Reader is the decoder's view of an input source.
//
// Implementations are not safe for concurrent use.
type Reader interface {
	// Read returns exactly n bytes, borrowed from the source when possible
	// and otherwise appended to scratch. It fails with an end-of-file error
	// when fewer than n bytes remain.
	Read(n int, scratch *pool.ByteBuffer) (Reference, error)

	// ReadInto fills buf completely or fails with an end-of-file error.
	ReadInto(buf []byte) error

	// ReadByte returns the next single byte.
	ReadByte() (byte, error)
}

// SliceReader reads from an in-memory byte slice and always borrows.
type SliceReader struct {
	data []byte
	pos  int
}

// NewSliceReader creates a reader over data. The reader does not copy data;
// the caller must keep it immutable for the reader's lifetime.
func NewSliceReader(data []byte) *SliceReader {
	return &SliceReader{data: data}
}

// Read borrows n bytes directly from the backing slice.
func (r *SliceReader) Read(n int, _ *pool.ByteBuffer) (Reference, error) {
	if n > len(r.data)-r.pos {
		return Reference{}, errs.EndOfFile(errs.NoPos)
	}

	ref := BorrowedRef(r.data[r.pos : r.pos+n])
	r.pos += n

	return ref, nil
}

// ReadInto copies the next len(buf) bytes into buf.
func (r *SliceReader) ReadInto(buf []byte) error {
	if len(buf) > len(r.data)-r.pos {
		return errs.EndOfFile(errs.NoPos)
	}

	copy(buf, r.data[r.pos:])
	r.pos += len(buf)

	return nil
}

// ReadByte returns the next byte.
func (r *SliceReader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.EndOfFile(errs.NoPos)
	}

	b := r.data[r.pos]
	r.pos++

	return b, nil
}

// Remaining returns the number of unread bytes. The decoder uses this as a
// sanity bound on declared container lengths.
func (r *SliceReader) Remaining() int {
	return len(r.data) - r.pos
}

// maxChunkLength bounds a single physical read to 8 KiB.
const maxChunkLength = 8192

// IOReader reads from an io.Reader and always copies into scratch.
type IOReader struct {
	r   io.Reader
	one [1]byte
}

// NewIOReader creates a reader over r.
func NewIOReader(r io.Reader) *IOReader {
	return &IOReader{r: r}
}

// Read appends exactly n bytes to scratch in bounded chunks and returns a
// copied reference to them.
func (r *IOReader) Read(n int, scratch *pool.ByteBuffer) (Reference, error) {
	start := scratch.Len()

	for total := 0; total < n; {
		toRead := n - total
		if toRead > maxChunkLength {
			toRead = maxChunkLength
		}

		chunk := scratch.ExtendOrGrow(toRead)
		read, err := io.ReadFull(r.r, chunk)
		total += read
		if err != nil {
			return Reference{}, errs.Io(err, errs.NoPos)
		}
	}

	return CopiedRef(scratch.Bytes()[start:]), nil
}

// ReadInto fills buf completely.
func (r *IOReader) ReadInto(buf []byte) error {
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return errs.Io(err, errs.NoPos)
	}

	return nil
}

// ReadByte returns the next byte.
func (r *IOReader) ReadByte() (byte, error) {
	if err := r.ReadInto(r.one[:]); err != nil {
		return 0, err
	}

	return r.one[0], nil
}
