package cellinfo

// Builder assembles cell info values from raw measurements. It is the only
// place the shared metadata can be set piecemeal; the values it builds are
// immutable.
//
// A Builder is not safe for concurrent use. It may be reused: each build
// copies the current metadata.
type Builder struct {
	base Base
}

// NewBuilder returns a Builder holding DefaultBase metadata.
func NewBuilder() *Builder {
	return &Builder{base: DefaultBase()}
}

func (b *Builder) SetRegistered(registered bool) *Builder {
	b.base.registered = registered
	return b
}

func (b *Builder) SetTimestamp(nanos uint64) *Builder {
	b.base.timestamp = nanos
	return b
}

// SetTimestampType stores t, or TimestampUnknown when t is out of range.
func (b *Builder) SetTimestampType(t TimestampType) *Builder {
	b.base.timestampType = t.Normalize()
	return b
}

func (b *Builder) SetConnectionStatus(s ConnectionStatus) *Builder {
	b.base.connectionStatus = s
	return b
}

// Base returns the metadata assembled so far.
func (b *Builder) Base() Base {
	return b.base
}

func (b *Builder) GSM(id *GSMIdentity, ss *GSMSignalStrength) (*GSM, error) {
	return NewGSMWithBase(b.base, id, ss)
}

func (b *Builder) CDMA(id *CDMAIdentity, ss *CDMASignalStrength) (*CDMA, error) {
	return NewCDMAWithBase(b.base, id, ss)
}

func (b *Builder) LTE(id *LTEIdentity, ss *LTESignalStrength) (*LTE, error) {
	return NewLTEWithBase(b.base, id, ss)
}

func (b *Builder) WCDMA(id *WCDMAIdentity, ss *WCDMASignalStrength) (*WCDMA, error) {
	return NewWCDMAWithBase(b.base, id, ss)
}

func (b *Builder) TDSCDMA(id *TDSCDMAIdentity, ss *TDSCDMASignalStrength) (*TDSCDMA, error) {
	return NewTDSCDMAWithBase(b.base, id, ss)
}
