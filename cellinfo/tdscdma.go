package cellinfo

import (
	"fmt"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// TDSCDMAIdentity identifies a TD-SCDMA cell.
type TDSCDMAIdentity struct {
	MCC        string
	MNC        string
	AlphaLong  string
	AlphaShort string

	LAC    int32
	CID    int32
	CPID   int32 // cell parameters ID
	UARFCN int32
}

func (id TDSCDMAIdentity) Type() Type { return TypeTDSCDMA }

func (id TDSCDMAIdentity) Operator() string { return id.MCC + id.MNC }

func (id TDSCDMAIdentity) Encode(w *parcel.Writer) {
	writeIdentityHeader(w, TypeTDSCDMA, operatorFields{id.MCC, id.MNC, id.AlphaLong, id.AlphaShort})
	w.WriteInt32(id.LAC)
	w.WriteInt32(id.CID)
	w.WriteInt32(id.CPID)
	w.WriteInt32(id.UARFCN)
}

func (id TDSCDMAIdentity) Equal(other Identity) bool {
	o, ok := other.(TDSCDMAIdentity)
	return ok && id == o
}

func (id TDSCDMAIdentity) Hash() int32 { return payloadHash(id.Encode) }

func (id TDSCDMAIdentity) String() string {
	return fmt.Sprintf("CellIdentityTdscdma:{ mLac=%s mCid=%s mCpid=%s mUarfcn=%s mMcc=%s mMnc=%s mAlphaLong=%s mAlphaShort=%s}",
		fieldString(id.LAC), fieldString(id.CID), fieldString(id.CPID), fieldString(id.UARFCN),
		id.MCC, id.MNC, id.AlphaLong, id.AlphaShort)
}

// DecodeTDSCDMAIdentity reads an identity written by TDSCDMAIdentity.Encode.
func DecodeTDSCDMAIdentity(r *parcel.Reader) (TDSCDMAIdentity, error) {
	f, err := readIdentityHeader(r, TypeTDSCDMA)
	if err != nil {
		return TDSCDMAIdentity{}, err
	}
	id := TDSCDMAIdentity{
		MCC:        f.mcc,
		MNC:        f.mnc,
		AlphaLong:  f.alphaLong,
		AlphaShort: f.alphaShort,
		LAC:        r.ReadInt32(),
		CID:        r.ReadInt32(),
		CPID:       r.ReadInt32(),
		UARFCN:     r.ReadInt32(),
	}
	if err := readErr(r, "tdscdma identity"); err != nil {
		return TDSCDMAIdentity{}, err
	}
	return id, nil
}

// TDSCDMASignalStrength holds TD-SCDMA signal readings.
type TDSCDMASignalStrength struct {
	RSSI         int32 // dBm
	BitErrorRate int32
	RSCP         int32 // dBm
}

var tdscdmaRSCPThresholds = [4]int32{-110, -100, -90, -80}

func (ss TDSCDMASignalStrength) Type() Type { return TypeTDSCDMA }

func (ss TDSCDMASignalStrength) Dbm() int32 { return ss.RSCP }

func (ss TDSCDMASignalStrength) Level() int32 { return levelFor(ss.RSCP, tdscdmaRSCPThresholds) }

func (ss TDSCDMASignalStrength) Encode(w *parcel.Writer) {
	w.WriteInt32(ss.RSSI)
	w.WriteInt32(ss.BitErrorRate)
	w.WriteInt32(ss.RSCP)
}

func (ss TDSCDMASignalStrength) Equal(other SignalStrength) bool {
	o, ok := other.(TDSCDMASignalStrength)
	return ok && ss == o
}

func (ss TDSCDMASignalStrength) Hash() int32 { return payloadHash(ss.Encode) }

func (ss TDSCDMASignalStrength) String() string {
	return fmt.Sprintf("CellSignalStrengthTdscdma: rssi=%s ber=%s rscp=%s level=%d",
		fieldString(ss.RSSI), fieldString(ss.BitErrorRate), fieldString(ss.RSCP), ss.Level())
}

// DecodeTDSCDMASignalStrength reads readings written by TDSCDMASignalStrength.Encode.
func DecodeTDSCDMASignalStrength(r *parcel.Reader) (TDSCDMASignalStrength, error) {
	ss := TDSCDMASignalStrength{
		RSSI:         r.ReadInt32(),
		BitErrorRate: r.ReadInt32(),
		RSCP:         r.ReadInt32(),
	}
	if err := readErr(r, "tdscdma signal strength"); err != nil {
		return TDSCDMASignalStrength{}, err
	}
	return ss, nil
}

// TDSCDMA is the cell info of a TD-SCDMA cell.
type TDSCDMA struct {
	meta
	identity TDSCDMAIdentity
	signal   TDSCDMASignalStrength
}

// NewTDSCDMA returns an unstamped TD-SCDMA cell info.
func NewTDSCDMA(id *TDSCDMAIdentity, ss *TDSCDMASignalStrength) (*TDSCDMA, error) {
	return NewTDSCDMAWithBase(DefaultBase(), id, ss)
}

// NewTDSCDMAWithBase returns a TD-SCDMA cell info with the given metadata.
// The identity and signal strength are copied.
func NewTDSCDMAWithBase(b Base, id *TDSCDMAIdentity, ss *TDSCDMASignalStrength) (*TDSCDMA, error) {
	if id == nil {
		return nil, ErrMissingIdentity
	}
	if ss == nil {
		return nil, ErrMissingSignalStrength
	}
	return &TDSCDMA{meta: b, identity: *id, signal: *ss}, nil
}

func (*TDSCDMA) isCellInfo() {}

func (c *TDSCDMA) Type() Type { return TypeTDSCDMA }

func (c *TDSCDMA) Identity() Identity { return c.identity }

func (c *TDSCDMA) SignalStrength() SignalStrength { return c.signal }

// CellIdentity returns the typed identity.
func (c *TDSCDMA) CellIdentity() TDSCDMAIdentity { return c.identity }

// CellSignalStrength returns the typed signal readings.
func (c *TDSCDMA) CellSignalStrength() TDSCDMASignalStrength { return c.signal }

func (c *TDSCDMA) Equal(other CellInfo) bool { return equal(c, other) }

func (c *TDSCDMA) Hash() int32 { return hash(c) }

func (c *TDSCDMA) String() string { return format("CellInfoTdscdma", c) }

func (c *TDSCDMA) Encode(w *parcel.Writer) {
	c.meta.encode(w, TypeTDSCDMA)
	c.identity.Encode(w)
	c.signal.Encode(w)
}

func decodeTDSCDMA(r *parcel.Reader) (CellInfo, error) {
	b := decodeBase(r)
	id, err := DecodeTDSCDMAIdentity(r)
	if err != nil {
		return nil, err
	}
	ss, err := DecodeTDSCDMASignalStrength(r)
	if err != nil {
		return nil, err
	}
	return &TDSCDMA{meta: b, identity: id, signal: ss}, nil
}
