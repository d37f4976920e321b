package cellinfo

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// operatorFields are the identity fields every technology writes first.
type operatorFields struct {
	mcc, mnc, alphaLong, alphaShort string
}

func writeOptString(w *parcel.Writer, s string) {
	if s == "" {
		w.WriteNullString()
		return
	}
	w.WriteString(s)
}

// writeIdentityHeader writes the identity's own type tag and operator fields.
func writeIdentityHeader(w *parcel.Writer, t Type, f operatorFields) {
	w.WriteInt32(int32(t))
	writeOptString(w, f.mcc)
	writeOptString(w, f.mnc)
	writeOptString(w, f.alphaLong)
	writeOptString(w, f.alphaShort)
}

// readIdentityHeader reads the header written by writeIdentityHeader and
// checks that it belongs to the expected technology.
func readIdentityHeader(r *parcel.Reader, want Type) (operatorFields, error) {
	var f operatorFields
	tag := r.ReadInt32()
	if err := r.Err(); err != nil {
		return f, fmt.Errorf("read %s identity: %w", want, err)
	}
	if Type(tag) != want {
		return f, fmt.Errorf("%w: got %s, want %s", ErrIdentityMismatch, Type(tag), want)
	}
	f.mcc, _ = r.ReadString()
	f.mnc, _ = r.ReadString()
	f.alphaLong, _ = r.ReadString()
	f.alphaShort, _ = r.ReadString()
	return f, nil
}

// payloadHash hashes the wire encoding of a value, so values that encode
// the same hash the same.
func payloadHash(encode func(w *parcel.Writer)) int32 {
	w := parcel.NewWriter()
	encode(w)
	h := xxhash.Sum64(w.Bytes())
	return int32(h ^ h>>32)
}

// readErr wraps a pending read failure with the name of the value being read.
func readErr(r *parcel.Reader, what string) error {
	if err := r.Err(); err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}

// levelFor maps a reading onto 0..4 bars. thresholds are ascending and give
// the minimum reading for levels 1 through 4.
func levelFor(v int32, thresholds [4]int32) int32 {
	if v == Unavailable {
		return 0
	}
	var level int32
	for i, t := range thresholds {
		if v >= t {
			level = int32(i + 1)
		}
	}
	return level
}

// fieldString renders an int32 field, showing unreported values as such.
func fieldString(v int32) string {
	if v == Unavailable {
		return "unavailable"
	}
	return fmt.Sprint(v)
}
