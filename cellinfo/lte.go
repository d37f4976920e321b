package cellinfo

import (
	"fmt"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// LTEIdentity identifies an LTE cell.
type LTEIdentity struct {
	MCC        string
	MNC        string
	AlphaLong  string
	AlphaShort string

	// CI is the 28-bit E-UTRAN cell identity (eNB ID << 8 | sector).
	CI        int32
	PCI       int32
	TAC       int32
	EARFCN    int32
	Bandwidth int32 // kHz
	Band      int32 // E-UTRA operating band
}

func (id LTEIdentity) Type() Type { return TypeLTE }

func (id LTEIdentity) Operator() string { return id.MCC + id.MNC }

// ENB returns the eNodeB part of the cell identity.
func (id LTEIdentity) ENB() int32 {
	if id.CI == Unavailable {
		return Unavailable
	}
	return id.CI >> 8
}

func (id LTEIdentity) Encode(w *parcel.Writer) {
	writeIdentityHeader(w, TypeLTE, operatorFields{id.MCC, id.MNC, id.AlphaLong, id.AlphaShort})
	w.WriteInt32(id.CI)
	w.WriteInt32(id.PCI)
	w.WriteInt32(id.TAC)
	w.WriteInt32(id.EARFCN)
	w.WriteInt32(id.Bandwidth)
	w.WriteInt32(id.Band)
}

func (id LTEIdentity) Equal(other Identity) bool {
	o, ok := other.(LTEIdentity)
	return ok && id == o
}

func (id LTEIdentity) Hash() int32 { return payloadHash(id.Encode) }

func (id LTEIdentity) String() string {
	return fmt.Sprintf("CellIdentityLte:{ mCi=%s mPci=%s mTac=%s mEarfcn=%s mBandwidth=%s mBand=%s mMcc=%s mMnc=%s mAlphaLong=%s mAlphaShort=%s}",
		fieldString(id.CI), fieldString(id.PCI), fieldString(id.TAC), fieldString(id.EARFCN),
		fieldString(id.Bandwidth), fieldString(id.Band), id.MCC, id.MNC, id.AlphaLong, id.AlphaShort)
}

// DecodeLTEIdentity reads an identity written by LTEIdentity.Encode.
func DecodeLTEIdentity(r *parcel.Reader) (LTEIdentity, error) {
	f, err := readIdentityHeader(r, TypeLTE)
	if err != nil {
		return LTEIdentity{}, err
	}
	id := LTEIdentity{
		MCC:        f.mcc,
		MNC:        f.mnc,
		AlphaLong:  f.alphaLong,
		AlphaShort: f.alphaShort,
		CI:         r.ReadInt32(),
		PCI:        r.ReadInt32(),
		TAC:        r.ReadInt32(),
		EARFCN:     r.ReadInt32(),
		Bandwidth:  r.ReadInt32(),
		Band:       r.ReadInt32(),
	}
	if err := readErr(r, "lte identity"); err != nil {
		return LTEIdentity{}, err
	}
	return id, nil
}

// LTESignalStrength holds LTE signal readings.
type LTESignalStrength struct {
	RSSI          int32 // dBm
	RSRP          int32 // dBm
	RSRQ          int32 // dB
	RSSNR         int32 // dB
	CQI           int32
	TimingAdvance int32
}

// UnavailableLTESignalStrength returns readings with every field unreported.
func UnavailableLTESignalStrength() LTESignalStrength {
	return LTESignalStrength{
		RSSI:          Unavailable,
		RSRP:          Unavailable,
		RSRQ:          Unavailable,
		RSSNR:         Unavailable,
		CQI:           Unavailable,
		TimingAdvance: Unavailable,
	}
}

var lteRSRPThresholds = [4]int32{-115, -105, -95, -85}

func (ss LTESignalStrength) Type() Type { return TypeLTE }

func (ss LTESignalStrength) Dbm() int32 { return ss.RSRP }

func (ss LTESignalStrength) Level() int32 { return levelFor(ss.RSRP, lteRSRPThresholds) }

func (ss LTESignalStrength) Encode(w *parcel.Writer) {
	w.WriteInt32(ss.RSSI)
	w.WriteInt32(ss.RSRP)
	w.WriteInt32(ss.RSRQ)
	w.WriteInt32(ss.RSSNR)
	w.WriteInt32(ss.CQI)
	w.WriteInt32(ss.TimingAdvance)
}

func (ss LTESignalStrength) Equal(other SignalStrength) bool {
	o, ok := other.(LTESignalStrength)
	return ok && ss == o
}

func (ss LTESignalStrength) Hash() int32 { return payloadHash(ss.Encode) }

func (ss LTESignalStrength) String() string {
	return fmt.Sprintf("CellSignalStrengthLte: rssi=%s rsrp=%s rsrq=%s rssnr=%s cqi=%s ta=%s level=%d",
		fieldString(ss.RSSI), fieldString(ss.RSRP), fieldString(ss.RSRQ), fieldString(ss.RSSNR),
		fieldString(ss.CQI), fieldString(ss.TimingAdvance), ss.Level())
}

// DecodeLTESignalStrength reads readings written by LTESignalStrength.Encode.
func DecodeLTESignalStrength(r *parcel.Reader) (LTESignalStrength, error) {
	ss := LTESignalStrength{
		RSSI:          r.ReadInt32(),
		RSRP:          r.ReadInt32(),
		RSRQ:          r.ReadInt32(),
		RSSNR:         r.ReadInt32(),
		CQI:           r.ReadInt32(),
		TimingAdvance: r.ReadInt32(),
	}
	if err := readErr(r, "lte signal strength"); err != nil {
		return LTESignalStrength{}, err
	}
	return ss, nil
}

// LTE is the cell info of an LTE cell.
type LTE struct {
	meta
	identity LTEIdentity
	signal   LTESignalStrength
}

// NewLTE returns an unstamped LTE cell info.
func NewLTE(id *LTEIdentity, ss *LTESignalStrength) (*LTE, error) {
	return NewLTEWithBase(DefaultBase(), id, ss)
}

// NewLTEWithBase returns an LTE cell info with the given metadata. The
// identity and signal strength are copied.
func NewLTEWithBase(b Base, id *LTEIdentity, ss *LTESignalStrength) (*LTE, error) {
	if id == nil {
		return nil, ErrMissingIdentity
	}
	if ss == nil {
		return nil, ErrMissingSignalStrength
	}
	return &LTE{meta: b, identity: *id, signal: *ss}, nil
}

func (*LTE) isCellInfo() {}

func (c *LTE) Type() Type { return TypeLTE }

func (c *LTE) Identity() Identity { return c.identity }

func (c *LTE) SignalStrength() SignalStrength { return c.signal }

// CellIdentity returns the typed identity.
func (c *LTE) CellIdentity() LTEIdentity { return c.identity }

// CellSignalStrength returns the typed signal readings.
func (c *LTE) CellSignalStrength() LTESignalStrength { return c.signal }

func (c *LTE) Equal(other CellInfo) bool { return equal(c, other) }

func (c *LTE) Hash() int32 { return hash(c) }

func (c *LTE) String() string { return format("CellInfoLte", c) }

func (c *LTE) Encode(w *parcel.Writer) {
	c.meta.encode(w, TypeLTE)
	c.identity.Encode(w)
	c.signal.Encode(w)
}

func decodeLTE(r *parcel.Reader) (CellInfo, error) {
	b := decodeBase(r)
	id, err := DecodeLTEIdentity(r)
	if err != nil {
		return nil, err
	}
	ss, err := DecodeLTESignalStrength(r)
	if err != nil {
		return nil, err
	}
	return &LTE{meta: b, identity: id, signal: ss}, nil
}
