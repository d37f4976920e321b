// Package parcel provides the fixed-width byte sink and source used by the
// cell info wire format.
package parcel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ErrShortBuffer is returned when a read runs past the end of the input.
var ErrShortBuffer = fmt.Errorf("parcel: short buffer: %w", io.ErrUnexpectedEOF)

// order is the byte order of every fixed-width field.
var order = binary.LittleEndian

// nullString is the length written for an absent string.
const nullString = -1

// Writer appends fixed-width values to an in-memory buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteInt32 appends a 4-byte integer.
func (w *Writer) WriteInt32(v int32) {
	var b [4]byte
	order.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// WriteInt64 appends an 8-byte integer.
func (w *Writer) WriteInt64(v int64) {
	var b [8]byte
	order.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// WriteUint64 appends an 8-byte unsigned integer.
func (w *Writer) WriteUint64(v uint64) {
	w.WriteInt64(int64(v))
}

// WriteBool appends a boolean as a 4-byte integer, 1 or 0.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteInt32(1)
		return
	}
	w.WriteInt32(0)
}

// WriteString appends a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxInt32 {
		s = s[:math.MaxInt32]
	}
	w.WriteInt32(int32(len(s)))
	w.buf.WriteString(s)
}

// WriteNullString appends the marker for an absent string.
func (w *Writer) WriteNullString() {
	w.WriteInt32(nullString)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader consumes fixed-width values from a byte slice.
//
// The first failed read is sticky: every later read returns a zero value
// and Err reports the original failure.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.err = ErrShortBuffer
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// ReadInt32 consumes a 4-byte integer.
func (r *Reader) ReadInt32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(order.Uint32(b))
}

// ReadInt64 consumes an 8-byte integer.
func (r *Reader) ReadInt64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(order.Uint64(b))
}

// ReadUint64 consumes an 8-byte unsigned integer.
func (r *Reader) ReadUint64() uint64 {
	return uint64(r.ReadInt64())
}

// ReadBool consumes a 4-byte integer and reports whether it equals 1.
func (r *Reader) ReadBool() bool {
	return r.ReadInt32() == 1
}

// ReadString consumes a length-prefixed string. An absent string reads as
// "" with ok false.
func (r *Reader) ReadString() (s string, ok bool) {
	n := r.ReadInt32()
	if r.err != nil {
		return "", false
	}
	if n == nullString {
		return "", false
	}
	if n < 0 {
		r.err = fmt.Errorf("parcel: negative string length %d", n)
		return "", false
	}
	b := r.take(int(n))
	if b == nil {
		return "", false
	}
	return string(b), true
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}
