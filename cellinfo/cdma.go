package cellinfo

import (
	"fmt"
	"strconv"

	"github.com/tmobile-dashboard/cellinfo/parcel"
)

// CDMAIdentity identifies a CDMA base station. CDMA has no MCC/MNC; the
// header carries only the operator names.
type CDMAIdentity struct {
	AlphaLong  string
	AlphaShort string

	NetworkID     int32
	SystemID      int32
	BasestationID int32
	// Longitude and Latitude are in units of 0.25 seconds.
	Longitude int32
	Latitude  int32
}

func (id CDMAIdentity) Type() Type { return TypeCDMA }

func (id CDMAIdentity) Operator() string {
	if id.SystemID == Unavailable {
		return ""
	}
	return strconv.Itoa(int(id.SystemID))
}

func (id CDMAIdentity) Encode(w *parcel.Writer) {
	writeIdentityHeader(w, TypeCDMA, operatorFields{alphaLong: id.AlphaLong, alphaShort: id.AlphaShort})
	w.WriteInt32(id.NetworkID)
	w.WriteInt32(id.SystemID)
	w.WriteInt32(id.BasestationID)
	w.WriteInt32(id.Longitude)
	w.WriteInt32(id.Latitude)
}

func (id CDMAIdentity) Equal(other Identity) bool {
	o, ok := other.(CDMAIdentity)
	return ok && id == o
}

func (id CDMAIdentity) Hash() int32 { return payloadHash(id.Encode) }

func (id CDMAIdentity) String() string {
	return fmt.Sprintf("CellIdentityCdma:{ mNetworkId=%s mSystemId=%s mBasestationId=%s mLongitude=%s mLatitude=%s mAlphaLong=%s mAlphaShort=%s}",
		fieldString(id.NetworkID), fieldString(id.SystemID), fieldString(id.BasestationID),
		fieldString(id.Longitude), fieldString(id.Latitude), id.AlphaLong, id.AlphaShort)
}

// DecodeCDMAIdentity reads an identity written by CDMAIdentity.Encode.
func DecodeCDMAIdentity(r *parcel.Reader) (CDMAIdentity, error) {
	f, err := readIdentityHeader(r, TypeCDMA)
	if err != nil {
		return CDMAIdentity{}, err
	}
	id := CDMAIdentity{
		AlphaLong:     f.alphaLong,
		AlphaShort:    f.alphaShort,
		NetworkID:     r.ReadInt32(),
		SystemID:      r.ReadInt32(),
		BasestationID: r.ReadInt32(),
		Longitude:     r.ReadInt32(),
		Latitude:      r.ReadInt32(),
	}
	if err := readErr(r, "cdma identity"); err != nil {
		return CDMAIdentity{}, err
	}
	return id, nil
}

// CDMASignalStrength holds CDMA 1x and EV-DO readings.
type CDMASignalStrength struct {
	CDMADbm  int32
	CDMAEcio int32 // dB*10
	EVDODbm  int32
	EVDOEcio int32 // dB*10
	EVDOSNR  int32 // 0..8
}

var cdmaDbmThresholds = [4]int32{-100, -95, -85, -75}

func (ss CDMASignalStrength) Type() Type { return TypeCDMA }

// Dbm returns the weaker of the 1x and EV-DO readings.
func (ss CDMASignalStrength) Dbm() int32 {
	switch {
	case ss.CDMADbm == Unavailable:
		return ss.EVDODbm
	case ss.EVDODbm == Unavailable:
		return ss.CDMADbm
	case ss.CDMADbm < ss.EVDODbm:
		return ss.CDMADbm
	default:
		return ss.EVDODbm
	}
}

func (ss CDMASignalStrength) Level() int32 { return levelFor(ss.Dbm(), cdmaDbmThresholds) }

func (ss CDMASignalStrength) Encode(w *parcel.Writer) {
	w.WriteInt32(ss.CDMADbm)
	w.WriteInt32(ss.CDMAEcio)
	w.WriteInt32(ss.EVDODbm)
	w.WriteInt32(ss.EVDOEcio)
	w.WriteInt32(ss.EVDOSNR)
}

func (ss CDMASignalStrength) Equal(other SignalStrength) bool {
	o, ok := other.(CDMASignalStrength)
	return ok && ss == o
}

func (ss CDMASignalStrength) Hash() int32 { return payloadHash(ss.Encode) }

func (ss CDMASignalStrength) String() string {
	return fmt.Sprintf("CellSignalStrengthCdma: cdmaDbm=%s cdmaEcio=%s evdoDbm=%s evdoEcio=%s evdoSnr=%s level=%d",
		fieldString(ss.CDMADbm), fieldString(ss.CDMAEcio), fieldString(ss.EVDODbm),
		fieldString(ss.EVDOEcio), fieldString(ss.EVDOSNR), ss.Level())
}

// DecodeCDMASignalStrength reads readings written by CDMASignalStrength.Encode.
func DecodeCDMASignalStrength(r *parcel.Reader) (CDMASignalStrength, error) {
	ss := CDMASignalStrength{
		CDMADbm:  r.ReadInt32(),
		CDMAEcio: r.ReadInt32(),
		EVDODbm:  r.ReadInt32(),
		EVDOEcio: r.ReadInt32(),
		EVDOSNR:  r.ReadInt32(),
	}
	if err := readErr(r, "cdma signal strength"); err != nil {
		return CDMASignalStrength{}, err
	}
	return ss, nil
}

// CDMA is the cell info of a CDMA cell.
type CDMA struct {
	meta
	identity CDMAIdentity
	signal   CDMASignalStrength
}

// NewCDMA returns an unstamped CDMA cell info.
func NewCDMA(id *CDMAIdentity, ss *CDMASignalStrength) (*CDMA, error) {
	return NewCDMAWithBase(DefaultBase(), id, ss)
}

// NewCDMAWithBase returns a CDMA cell info with the given metadata. The
// identity and signal strength are copied.
func NewCDMAWithBase(b Base, id *CDMAIdentity, ss *CDMASignalStrength) (*CDMA, error) {
	if id == nil {
		return nil, ErrMissingIdentity
	}
	if ss == nil {
		return nil, ErrMissingSignalStrength
	}
	return &CDMA{meta: b, identity: *id, signal: *ss}, nil
}

func (*CDMA) isCellInfo() {}

func (c *CDMA) Type() Type { return TypeCDMA }

func (c *CDMA) Identity() Identity { return c.identity }

func (c *CDMA) SignalStrength() SignalStrength { return c.signal }

// CellIdentity returns the typed identity.
func (c *CDMA) CellIdentity() CDMAIdentity { return c.identity }

// CellSignalStrength returns the typed signal readings.
func (c *CDMA) CellSignalStrength() CDMASignalStrength { return c.signal }

func (c *CDMA) Equal(other CellInfo) bool { return equal(c, other) }

func (c *CDMA) Hash() int32 { return hash(c) }

func (c *CDMA) String() string { return format("CellInfoCdma", c) }

func (c *CDMA) Encode(w *parcel.Writer) {
	c.meta.encode(w, TypeCDMA)
	c.identity.Encode(w)
	c.signal.Encode(w)
}

func decodeCDMA(r *parcel.Reader) (CellInfo, error) {
	b := decodeBase(r)
	id, err := DecodeCDMAIdentity(r)
	if err != nil {
		return nil, err
	}
	ss, err := DecodeCDMASignalStrength(r)
	if err != nil {
		return nil, err
	}
	return &CDMA{meta: b, identity: id, signal: ss}, nil
}
