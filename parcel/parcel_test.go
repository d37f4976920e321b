package parcel

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestWriteReadFixedWidth(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(-7)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteInt64(math.MinInt64)
	w.WriteUint64(math.MaxUint64)
	w.WriteInt32(math.MaxInt32)

	if got, want := w.Len(), 4+4+4+8+8+4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	r := NewReader(w.Bytes())
	if got := r.ReadInt32(); got != -7 {
		t.Errorf("ReadInt32() = %d, want -7", got)
	}
	if !r.ReadBool() {
		t.Error("ReadBool() = false, want true")
	}
	if r.ReadBool() {
		t.Error("ReadBool() = true, want false")
	}
	if got := r.ReadInt64(); got != math.MinInt64 {
		t.Errorf("ReadInt64() = %d, want %d", got, int64(math.MinInt64))
	}
	if got := r.ReadUint64(); got != math.MaxUint64 {
		t.Errorf("ReadUint64() = %d, want max", got)
	}
	if got := r.ReadInt32(); got != math.MaxInt32 {
		t.Errorf("ReadInt32() = %d, want max", got)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestLittleEndianLayout(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(3)
	want := []byte{3, 0, 0, 0}
	got := w.Bytes()
	if len(got) != len(want) {
		t.Fatalf("got %d bytes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w *Writer)
		want   string
		wantOK bool
	}{
		{"plain", func(w *Writer) { w.WriteString("310") }, "310", true},
		{"empty", func(w *Writer) { w.WriteString("") }, "", true},
		{"utf8", func(w *Writer) { w.WriteString("Télécom") }, "Télécom", true},
		{"null", func(w *Writer) { w.WriteNullString() }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.write(w)
			r := NewReader(w.Bytes())
			got, ok := r.ReadString()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ReadString() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
			if err := r.Err(); err != nil {
				t.Errorf("Err() = %v", err)
			}
		})
	}
}

func TestShortBufferIsSticky(t *testing.T) {
	r := NewReader([]byte{1, 0})
	if got := r.ReadInt32(); got != 0 {
		t.Errorf("ReadInt32() on short buffer = %d, want 0", got)
	}
	if !errors.Is(r.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("Err() = %v, want ErrUnexpectedEOF", r.Err())
	}
	if got := r.ReadInt64(); got != 0 {
		t.Errorf("ReadInt64() after failure = %d, want 0", got)
	}
	if !errors.Is(r.Err(), ErrShortBuffer) {
		t.Errorf("Err() = %v, want ErrShortBuffer", r.Err())
	}
}

func TestStringLengthPastEnd(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(10)
	r := NewReader(append(w.Bytes(), 'a', 'b'))
	if _, ok := r.ReadString(); ok {
		t.Error("ReadString() ok = true, want false")
	}
	if !errors.Is(r.Err(), ErrShortBuffer) {
		t.Errorf("Err() = %v, want ErrShortBuffer", r.Err())
	}
}

func TestNegativeStringLength(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(-5)
	r := NewReader(w.Bytes())
	r.ReadString()
	if r.Err() == nil {
		t.Error("Err() = nil, want error for negative length")
	}
}
