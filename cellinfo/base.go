package cellinfo

import (
	"fmt"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// hashPrime is the multiplier applied to every hashed field.
const hashPrime int32 = 31

// Base holds the observation metadata shared by every variant.
type Base struct {
	registered       bool
	timestamp        uint64
	timestampType    TimestampType
	connectionStatus ConnectionStatus
}

// DefaultBase returns the metadata of a cell info that has not been stamped:
// unregistered, unset timestamp of unknown provenance, not serving.
func DefaultBase() Base {
	return Base{
		timestamp:        TimestampUnset,
		timestampType:    TimestampUnknown,
		connectionStatus: ConnectionNone,
	}
}

// NewBase returns metadata with the given fields. An out-of-range timestamp
// type is stored as TimestampUnknown.
func NewBase(registered bool, timestamp uint64, tsType TimestampType, status ConnectionStatus) Base {
	return Base{
		registered:       registered,
		timestamp:        timestamp,
		timestampType:    tsType.Normalize(),
		connectionStatus: status,
	}
}

// Registered reports whether the device is attached to this cell.
func (b Base) Registered() bool {
	return b.registered
}

// Timestamp returns the observation time in nanoseconds since boot.
func (b Base) Timestamp() uint64 {
	return b.timestamp
}

// TimestampType returns where the timestamp was recorded.
func (b Base) TimestampType() TimestampType {
	return b.timestampType
}

// ConnectionStatus returns the serving role of the cell.
func (b Base) ConnectionStatus() ConnectionStatus {
	return b.connectionStatus
}

// Equal compares the four metadata fields only.
func (b Base) Equal(o Base) bool {
	return b == o
}

// Hash combines the metadata fields. The timestamp contributes at
// microsecond resolution.
func (b Base) Hash() int32 {
	var reg int32 = 1
	if b.registered {
		reg = 0
	}
	return reg*hashPrime +
		int32(b.timestamp/1000)*hashPrime +
		int32(b.timestampType)*hashPrime +
		int32(b.connectionStatus)*hashPrime
}

func (b Base) String() string {
	reg := "NO"
	if b.registered {
		reg = "YES"
	}
	return fmt.Sprintf("mRegistered=%s mTimeStampType=%s mTimeStamp=%dns mCellConnectionStatus=%d",
		reg, b.timestampType, b.timestamp, int32(b.connectionStatus))
}

// encode writes the variant tag followed by the shared fields.
func (b Base) encode(w *parcel.Writer, t Type) {
	w.WriteInt32(int32(t))
	w.WriteBool(b.registered)
	w.WriteInt32(int32(b.timestampType))
	w.WriteUint64(b.timestamp)
	w.WriteInt32(int32(b.connectionStatus))
}

// decodeBase reads the shared fields that follow the tag. Read failures are
// left on r for the caller to report.
func decodeBase(r *parcel.Reader) Base {
	registered := r.ReadBool()
	tsType := TimestampType(r.ReadInt32())
	timestamp := r.ReadUint64()
	status := ConnectionStatus(r.ReadInt32())
	return NewBase(registered, timestamp, tsType, status)
}

// meta lets variants embed Base under an unexported field name, so the
// metadata of a finished value cannot be replaced from outside the package.
type meta = Base
