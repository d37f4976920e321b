// Package cellinfo models immutable radio cell observations.
//
// A CellInfo is one of five variants, one per radio access technology. Each
// variant carries the shared observation metadata (Base) together with its
// own identity and signal strength values, and encodes to a type-tagged
// binary record that Decode turns back into the right variant.
package cellinfo

import (
	"fmt"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// CellInfo is an immutable snapshot of one cell as of one timestamp.
//
// The set of implementations is closed: *GSM, *CDMA, *LTE, *WCDMA and
// *TDSCDMA.
type CellInfo interface {
	// Type returns the variant tag.
	Type() Type

	Registered() bool
	Timestamp() uint64
	TimestampType() TimestampType
	ConnectionStatus() ConnectionStatus

	// Identity returns the cell identity. It is never nil.
	Identity() Identity

	// SignalStrength returns the signal readings. It is never nil.
	SignalStrength() SignalStrength

	// Equal reports whether other is the same variant with equal metadata,
	// identity and signal strength.
	Equal(other CellInfo) bool

	Hash() int32
	String() string

	// Encode appends the tagged record to w.
	Encode(w *parcel.Writer)

	isCellInfo()
}

// Identity identifies a cell within its radio technology.
type Identity interface {
	Type() Type

	// Operator returns the network the cell belongs to: MCC+MNC for 3GPP
	// technologies, the system ID for CDMA.
	Operator() string

	Encode(w *parcel.Writer)
	Equal(other Identity) bool
	Hash() int32
	String() string
}

// SignalStrength carries the radio quality readings of a cell.
type SignalStrength interface {
	Type() Type

	// Dbm returns the technology's primary power reading in dBm, or
	// Unavailable.
	Dbm() int32

	// Level returns signal bars from 0 (none or unknown) to 4 (great).
	Level() int32

	Encode(w *parcel.Writer)
	Equal(other SignalStrength) bool
	Hash() int32
	String() string
}

// Decode reads exactly one record from r.
//
// The leading tag selects the variant. A tag outside the five known
// technologies fails with a *TagError and nothing is constructed.
func Decode(r *parcel.Reader) (CellInfo, error) {
	tag := r.ReadInt32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read cell info tag: %w", err)
	}

	switch Type(tag) {
	case TypeGSM:
		return decodeGSM(r)
	case TypeCDMA:
		return decodeCDMA(r)
	case TypeLTE:
		return decodeLTE(r)
	case TypeWCDMA:
		return decodeWCDMA(r)
	case TypeTDSCDMA:
		return decodeTDSCDMA(r)
	default:
		return nil, &TagError{Tag: tag}
	}
}

// Unmarshal decodes a buffer holding exactly one record.
func Unmarshal(data []byte) (CellInfo, error) {
	r := parcel.NewReader(data)
	c, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if n := r.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, n)
	}
	return c, nil
}

// Marshal encodes c as a single record.
func Marshal(c CellInfo) ([]byte, error) {
	if isNil(c) {
		return nil, ErrNilCellInfo
	}
	w := parcel.NewWriter()
	c.Encode(w)
	return w.Bytes(), nil
}

// PeekType returns the variant tag of an encoded record without decoding it.
func PeekType(data []byte) (Type, error) {
	r := parcel.NewReader(data)
	tag := r.ReadInt32()
	if err := r.Err(); err != nil {
		return TypeUnknown, fmt.Errorf("read cell info tag: %w", err)
	}
	if !Type(tag).Valid() {
		return TypeUnknown, &TagError{Tag: tag}
	}
	return Type(tag), nil
}

// baseOf returns the metadata of a non-nil variant.
func baseOf(c CellInfo) Base {
	return NewBase(c.Registered(), c.Timestamp(), c.TimestampType(), c.ConnectionStatus())
}

// equal is the single equality used by every variant. It compares the tag,
// the metadata, the identity and the signal strength.
func equal(a, b CellInfo) bool {
	if isNil(a) || isNil(b) {
		return false
	}
	if a.Type() != b.Type() {
		return false
	}
	return baseOf(a).Equal(baseOf(b)) &&
		a.Identity().Equal(b.Identity()) &&
		a.SignalStrength().Equal(b.SignalStrength())
}

// hash extends the metadata hash with the tag, identity and signal strength.
func hash(c CellInfo) int32 {
	h := hashPrime + baseOf(c).Hash()
	h = h*hashPrime + int32(c.Type())
	h = h*hashPrime + c.Identity().Hash()
	h = h*hashPrime + c.SignalStrength().Hash()
	return h
}

func format(name string, c CellInfo) string {
	return fmt.Sprintf("%s:{%s %s %s}", name, baseOf(c), c.Identity(), c.SignalStrength())
}

func isNil(c CellInfo) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *GSM:
		return v == nil
	case *CDMA:
		return v == nil
	case *LTE:
		return v == nil
	case *WCDMA:
		return v == nil
	case *TDSCDMA:
		return v == nil
	default:
		return false
	}
}
