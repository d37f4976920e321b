package cellinfo

import (
	"fmt"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// GSMIdentity identifies a GSM cell.
type GSMIdentity struct {
	MCC        string
	MNC        string
	AlphaLong  string
	AlphaShort string

	LAC   int32
	CID   int32
	ARFCN int32
	BSIC  int32
}

func (id GSMIdentity) Type() Type { return TypeGSM }

func (id GSMIdentity) Operator() string { return id.MCC + id.MNC }

func (id GSMIdentity) Encode(w *parcel.Writer) {
	writeIdentityHeader(w, TypeGSM, operatorFields{id.MCC, id.MNC, id.AlphaLong, id.AlphaShort})
	w.WriteInt32(id.LAC)
	w.WriteInt32(id.CID)
	w.WriteInt32(id.ARFCN)
	w.WriteInt32(id.BSIC)
}

func (id GSMIdentity) Equal(other Identity) bool {
	o, ok := other.(GSMIdentity)
	return ok && id == o
}

func (id GSMIdentity) Hash() int32 { return payloadHash(id.Encode) }

func (id GSMIdentity) String() string {
	return fmt.Sprintf("CellIdentityGsm:{ mLac=%s mCid=%s mArfcn=%s mBsic=%s mMcc=%s mMnc=%s mAlphaLong=%s mAlphaShort=%s}",
		fieldString(id.LAC), fieldString(id.CID), fieldString(id.ARFCN), fieldString(id.BSIC),
		id.MCC, id.MNC, id.AlphaLong, id.AlphaShort)
}

// DecodeGSMIdentity reads an identity written by GSMIdentity.Encode.
func DecodeGSMIdentity(r *parcel.Reader) (GSMIdentity, error) {
	f, err := readIdentityHeader(r, TypeGSM)
	if err != nil {
		return GSMIdentity{}, err
	}
	id := GSMIdentity{
		MCC:        f.mcc,
		MNC:        f.mnc,
		AlphaLong:  f.alphaLong,
		AlphaShort: f.alphaShort,
		LAC:        r.ReadInt32(),
		CID:        r.ReadInt32(),
		ARFCN:      r.ReadInt32(),
		BSIC:       r.ReadInt32(),
	}
	if err := readErr(r, "gsm identity"); err != nil {
		return GSMIdentity{}, err
	}
	return id, nil
}

// GSMSignalStrength holds GSM signal readings.
type GSMSignalStrength struct {
	RSSI          int32 // dBm
	BitErrorRate  int32 // 0..7, TS 27.007 8.5
	TimingAdvance int32
}

var gsmRSSIThresholds = [4]int32{-107, -103, -97, -89}

func (ss GSMSignalStrength) Type() Type { return TypeGSM }

func (ss GSMSignalStrength) Dbm() int32 { return ss.RSSI }

func (ss GSMSignalStrength) Level() int32 { return levelFor(ss.RSSI, gsmRSSIThresholds) }

func (ss GSMSignalStrength) Encode(w *parcel.Writer) {
	w.WriteInt32(ss.RSSI)
	w.WriteInt32(ss.BitErrorRate)
	w.WriteInt32(ss.TimingAdvance)
}

func (ss GSMSignalStrength) Equal(other SignalStrength) bool {
	o, ok := other.(GSMSignalStrength)
	return ok && ss == o
}

func (ss GSMSignalStrength) Hash() int32 { return payloadHash(ss.Encode) }

func (ss GSMSignalStrength) String() string {
	return fmt.Sprintf("CellSignalStrengthGsm: rssi=%s ber=%s mTa=%s level=%d",
		fieldString(ss.RSSI), fieldString(ss.BitErrorRate), fieldString(ss.TimingAdvance), ss.Level())
}

// DecodeGSMSignalStrength reads readings written by GSMSignalStrength.Encode.
func DecodeGSMSignalStrength(r *parcel.Reader) (GSMSignalStrength, error) {
	ss := GSMSignalStrength{
		RSSI:          r.ReadInt32(),
		BitErrorRate:  r.ReadInt32(),
		TimingAdvance: r.ReadInt32(),
	}
	if err := readErr(r, "gsm signal strength"); err != nil {
		return GSMSignalStrength{}, err
	}
	return ss, nil
}

// GSM is the cell info of a GSM cell.
type GSM struct {
	meta
	identity GSMIdentity
	signal   GSMSignalStrength
}

// NewGSM returns an unstamped GSM cell info.
func NewGSM(id *GSMIdentity, ss *GSMSignalStrength) (*GSM, error) {
	return NewGSMWithBase(DefaultBase(), id, ss)
}

// NewGSMWithBase returns a GSM cell info with the given metadata. The
// identity and signal strength are copied.
func NewGSMWithBase(b Base, id *GSMIdentity, ss *GSMSignalStrength) (*GSM, error) {
	if id == nil {
		return nil, ErrMissingIdentity
	}
	if ss == nil {
		return nil, ErrMissingSignalStrength
	}
	return &GSM{meta: b, identity: *id, signal: *ss}, nil
}

func (*GSM) isCellInfo() {}

func (c *GSM) Type() Type { return TypeGSM }

func (c *GSM) Identity() Identity { return c.identity }

func (c *GSM) SignalStrength() SignalStrength { return c.signal }

// CellIdentity returns the typed identity.
func (c *GSM) CellIdentity() GSMIdentity { return c.identity }

// CellSignalStrength returns the typed signal readings.
func (c *GSM) CellSignalStrength() GSMSignalStrength { return c.signal }

func (c *GSM) Equal(other CellInfo) bool { return equal(c, other) }

func (c *GSM) Hash() int32 { return hash(c) }

func (c *GSM) String() string { return format("CellInfoGsm", c) }

func (c *GSM) Encode(w *parcel.Writer) {
	c.meta.encode(w, TypeGSM)
	c.identity.Encode(w)
	c.signal.Encode(w)
}

func decodeGSM(r *parcel.Reader) (CellInfo, error) {
	b := decodeBase(r)
	id, err := DecodeGSMIdentity(r)
	if err != nil {
		return nil, err
	}
	ss, err := DecodeGSMSignalStrength(r)
	if err != nil {
		return nil, err
	}
	return &GSM{meta: b, identity: id, signal: ss}, nil
}
