package cellinfo

import (
	"fmt"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// WCDMAIdentity identifies a UMTS (WCDMA) cell.
type WCDMAIdentity struct {
	MCC        string
	MNC        string
	AlphaLong  string
	AlphaShort string

	LAC    int32
	CID    int32
	PSC    int32 // primary scrambling code
	UARFCN int32
}

func (id WCDMAIdentity) Type() Type { return TypeWCDMA }

func (id WCDMAIdentity) Operator() string { return id.MCC + id.MNC }

func (id WCDMAIdentity) Encode(w *parcel.Writer) {
	writeIdentityHeader(w, TypeWCDMA, operatorFields{id.MCC, id.MNC, id.AlphaLong, id.AlphaShort})
	w.WriteInt32(id.LAC)
	w.WriteInt32(id.CID)
	w.WriteInt32(id.PSC)
	w.WriteInt32(id.UARFCN)
}

func (id WCDMAIdentity) Equal(other Identity) bool {
	o, ok := other.(WCDMAIdentity)
	return ok && id == o
}

func (id WCDMAIdentity) Hash() int32 { return payloadHash(id.Encode) }

func (id WCDMAIdentity) String() string {
	return fmt.Sprintf("CellIdentityWcdma:{ mLac=%s mCid=%s mPsc=%s mUarfcn=%s mMcc=%s mMnc=%s mAlphaLong=%s mAlphaShort=%s}",
		fieldString(id.LAC), fieldString(id.CID), fieldString(id.PSC), fieldString(id.UARFCN),
		id.MCC, id.MNC, id.AlphaLong, id.AlphaShort)
}

// DecodeWCDMAIdentity reads an identity written by WCDMAIdentity.Encode.
func DecodeWCDMAIdentity(r *parcel.Reader) (WCDMAIdentity, error) {
	f, err := readIdentityHeader(r, TypeWCDMA)
	if err != nil {
		return WCDMAIdentity{}, err
	}
	id := WCDMAIdentity{
		MCC:        f.mcc,
		MNC:        f.mnc,
		AlphaLong:  f.alphaLong,
		AlphaShort: f.alphaShort,
		LAC:        r.ReadInt32(),
		CID:        r.ReadInt32(),
		PSC:        r.ReadInt32(),
		UARFCN:     r.ReadInt32(),
	}
	if err := readErr(r, "wcdma identity"); err != nil {
		return WCDMAIdentity{}, err
	}
	return id, nil
}

// WCDMASignalStrength holds WCDMA signal readings.
type WCDMASignalStrength struct {
	RSSI         int32 // dBm
	BitErrorRate int32
	RSCP         int32 // dBm
	EcNo         int32 // dB
}

var wcdmaRSCPThresholds = [4]int32{-115, -105, -95, -85}

func (ss WCDMASignalStrength) Type() Type { return TypeWCDMA }

// Dbm returns RSCP, falling back to RSSI when RSCP was not reported.
func (ss WCDMASignalStrength) Dbm() int32 {
	if ss.RSCP != Unavailable {
		return ss.RSCP
	}
	return ss.RSSI
}

func (ss WCDMASignalStrength) Level() int32 { return levelFor(ss.Dbm(), wcdmaRSCPThresholds) }

func (ss WCDMASignalStrength) Encode(w *parcel.Writer) {
	w.WriteInt32(ss.RSSI)
	w.WriteInt32(ss.BitErrorRate)
	w.WriteInt32(ss.RSCP)
	w.WriteInt32(ss.EcNo)
}

func (ss WCDMASignalStrength) Equal(other SignalStrength) bool {
	o, ok := other.(WCDMASignalStrength)
	return ok && ss == o
}

func (ss WCDMASignalStrength) Hash() int32 { return payloadHash(ss.Encode) }

func (ss WCDMASignalStrength) String() string {
	return fmt.Sprintf("CellSignalStrengthWcdma: ss=%s ber=%s rscp=%s ecno=%s level=%d",
		fieldString(ss.RSSI), fieldString(ss.BitErrorRate), fieldString(ss.RSCP),
		fieldString(ss.EcNo), ss.Level())
}

// DecodeWCDMASignalStrength reads readings written by WCDMASignalStrength.Encode.
func DecodeWCDMASignalStrength(r *parcel.Reader) (WCDMASignalStrength, error) {
	ss := WCDMASignalStrength{
		RSSI:         r.ReadInt32(),
		BitErrorRate: r.ReadInt32(),
		RSCP:         r.ReadInt32(),
		EcNo:         r.ReadInt32(),
	}
	if err := readErr(r, "wcdma signal strength"); err != nil {
		return WCDMASignalStrength{}, err
	}
	return ss, nil
}

// WCDMA is the cell info of a WCDMA cell.
type WCDMA struct {
	meta
	identity WCDMAIdentity
	signal   WCDMASignalStrength
}

// NewWCDMA returns an unstamped WCDMA cell info.
func NewWCDMA(id *WCDMAIdentity, ss *WCDMASignalStrength) (*WCDMA, error) {
	return NewWCDMAWithBase(DefaultBase(), id, ss)
}

// NewWCDMAWithBase returns a WCDMA cell info with the given metadata. The
// identity and signal strength are copied.
func NewWCDMAWithBase(b Base, id *WCDMAIdentity, ss *WCDMASignalStrength) (*WCDMA, error) {
	if id == nil {
		return nil, ErrMissingIdentity
	}
	if ss == nil {
		return nil, ErrMissingSignalStrength
	}
	return &WCDMA{meta: b, identity: *id, signal: *ss}, nil
}

func (*WCDMA) isCellInfo() {}

func (c *WCDMA) Type() Type { return TypeWCDMA }

func (c *WCDMA) Identity() Identity { return c.identity }

func (c *WCDMA) SignalStrength() SignalStrength { return c.signal }

// CellIdentity returns the typed identity.
func (c *WCDMA) CellIdentity() WCDMAIdentity { return c.identity }

// CellSignalStrength returns the typed signal readings.
func (c *WCDMA) CellSignalStrength() WCDMASignalStrength { return c.signal }

func (c *WCDMA) Equal(other CellInfo) bool { return equal(c, other) }

func (c *WCDMA) Hash() int32 { return hash(c) }

func (c *WCDMA) String() string { return format("CellInfoWcdma", c) }

func (c *WCDMA) Encode(w *parcel.Writer) {
	c.meta.encode(w, TypeWCDMA)
	c.identity.Encode(w)
	c.signal.Encode(w)
}

func decodeWCDMA(r *parcel.Reader) (CellInfo, error) {
	b := decodeBase(r)
	id, err := DecodeWCDMAIdentity(r)
	if err != nil {
		return nil, err
	}
	ss, err := DecodeWCDMASignalStrength(r)
	if err != nil {
		return nil, err
	}
	return &WCDMA{meta: b, identity: id, signal: ss}, nil
}
