package cellinfo

import (
	"math"
	"strconv"
)

// Type is the variant tag that leads every encoded cell info record.
type Type int32

const (
	TypeUnknown Type = 0
	TypeGSM     Type = 1
	TypeCDMA    Type = 2
	TypeLTE     Type = 3
	TypeWCDMA   Type = 4
	TypeTDSCDMA Type = 5
)

// Valid reports whether t names one of the five radio technologies.
// TypeUnknown is never valid on the wire.
func (t Type) Valid() bool {
	return t >= TypeGSM && t <= TypeTDSCDMA
}

func (t Type) String() string {
	switch t {
	case TypeGSM:
		return "gsm"
	case TypeCDMA:
		return "cdma"
	case TypeLTE:
		return "lte"
	case TypeWCDMA:
		return "wcdma"
	case TypeTDSCDMA:
		return "tdscdma"
	default:
		return "unknown"
	}
}

// TimestampType records which layer stamped the observation time.
type TimestampType int32

const (
	TimestampUnknown            TimestampType = 0
	TimestampAntenna            TimestampType = 1
	TimestampModem              TimestampType = 2
	TimestampOEMRadio           TimestampType = 3
	TimestampPlatformRadioLayer TimestampType = 4
)

// Valid reports whether t is one of the recognized timestamp types.
func (t TimestampType) Valid() bool {
	return t >= TimestampUnknown && t <= TimestampPlatformRadioLayer
}

// Normalize maps out-of-range values to TimestampUnknown.
func (t TimestampType) Normalize() TimestampType {
	if !t.Valid() {
		return TimestampUnknown
	}
	return t
}

func (t TimestampType) String() string {
	switch t {
	case TimestampAntenna:
		return "antenna"
	case TimestampModem:
		return "modem"
	case TimestampOEMRadio:
		return "oem_ril"
	case TimestampPlatformRadioLayer:
		return "java_ril"
	default:
		return "unknown"
	}
}

// ConnectionStatus is the serving role of a cell at observation time.
type ConnectionStatus int32

const (
	// ConnectionNone is a measured cell that is neither camped on nor serving.
	ConnectionNone ConnectionStatus = 0
	// ConnectionPrimaryServing carries signalling and possibly data.
	ConnectionPrimaryServing ConnectionStatus = 1
	// ConnectionSecondaryServing carries data only.
	ConnectionSecondaryServing ConnectionStatus = 2
	ConnectionUnknown          ConnectionStatus = math.MaxInt32
)

func (s ConnectionStatus) String() string {
	switch s {
	case ConnectionNone:
		return "none"
	case ConnectionPrimaryServing:
		return "primary_serving"
	case ConnectionSecondaryServing:
		return "secondary_serving"
	case ConnectionUnknown:
		return "unknown"
	default:
		return strconv.Itoa(int(s))
	}
}

// Unavailable marks an identity or signal field the radio did not report.
const Unavailable int32 = math.MaxInt32

// TimestampUnset is the timestamp of a cell info that was never stamped.
const TimestampUnset uint64 = math.MaxUint64
