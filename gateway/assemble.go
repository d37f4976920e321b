package gateway

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
)

const unavailable = cellinfo.Unavailable

// lteReading is one LTE carrier as reported by a gateway. Fields the
// gateway did not report hold cellinfo.Unavailable.
type lteReading struct {
	RSRP int32
	RSRQ int32
	RSSI int32
	SINR int32

	PCI       int32
	ENB       int32
	CellID    int32 // sector, or the full 28-bit ECI when above 255
	TAC       int32
	EARFCN    int32
	Band      int32
	Bandwidth int32 // kHz
}

func newLTEReading() lteReading {
	return lteReading{
		RSRP: unavailable, RSRQ: unavailable, RSSI: unavailable, SINR: unavailable,
		PCI: unavailable, ENB: unavailable, CellID: unavailable, TAC: unavailable,
		EARFCN: unavailable, Band: unavailable, Bandwidth: unavailable,
	}
}

// ci combines the eNodeB ID and sector into the E-UTRAN cell identity.
func (r lteReading) ci() int32 {
	switch {
	case r.CellID != unavailable && r.CellID > 0xff:
		return r.CellID
	case r.ENB == unavailable:
		return unavailable
	case r.CellID == unavailable:
		return r.ENB << 8
	default:
		return r.ENB<<8 | r.CellID
	}
}

// hasSignal reports whether the reading carries a plausible RSRP.
func (r lteReading) hasSignal() bool {
	return r.RSRP != unavailable && r.RSRP != 0 && r.RSRP > -200
}

// assembleLTE turns gateway readings into LTE cell infos stamped with one
// observation time. The first reading is the primary serving cell the
// device is registered on; the rest are aggregated secondary carriers.
func assembleLTE(cfg ClientConfig, readings []lteReading) ([]cellinfo.CellInfo, error) {
	now := cfg.SinceBoot()
	cells := make([]cellinfo.CellInfo, 0, len(readings))

	for i, rd := range readings {
		b := cellinfo.NewBuilder().
			SetTimestamp(now).
			SetTimestampType(cellinfo.TimestampPlatformRadioLayer)
		if i == 0 {
			b.SetRegistered(true).SetConnectionStatus(cellinfo.ConnectionPrimaryServing)
		} else {
			b.SetConnectionStatus(cellinfo.ConnectionSecondaryServing)
		}

		id := cellinfo.LTEIdentity{
			MCC:       cfg.MCC,
			MNC:       cfg.MNC,
			CI:        rd.ci(),
			PCI:       rd.PCI,
			TAC:       rd.TAC,
			EARFCN:    rd.EARFCN,
			Bandwidth: rd.Bandwidth,
			Band:      rd.Band,
		}
		ss := cellinfo.LTESignalStrength{
			RSSI:          rd.RSSI,
			RSRP:          rd.RSRP,
			RSRQ:          rd.RSRQ,
			RSSNR:         rd.SINR,
			CQI:           unavailable,
			TimingAdvance: unavailable,
		}

		c, err := b.LTE(&id, &ss)
		if err != nil {
			return nil, fmt.Errorf("assemble LTE cell %d: %w", i, err)
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// Helper functions for parsing values

// cleanValue trims a raw field and strips units. It returns "" for
// fields the gateway left empty.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "N/A" || v == "null" {
		return ""
	}
	// Remove any units or suffixes
	return strings.Fields(v)[0]
}

// parseReading returns the first parseable value rounded to an integer.
func parseReading(values ...string) int32 {
	for _, v := range values {
		v = cleanValue(v)
		if v == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return toInt32(f)
		}
	}
	return unavailable
}

// parseInt returns the first parseable integer, accepting hex.
func parseInt(values ...string) int32 {
	for _, v := range values {
		v = cleanValue(v)
		if v == "" {
			continue
		}
		// Handle hex values
		if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
			if i, err := strconv.ParseInt(v[2:], 16, 32); err == nil {
				return int32(i)
			}
			continue
		}
		if i, err := strconv.ParseInt(v, 10, 32); err == nil {
			return int32(i)
		}
	}
	return unavailable
}

// parseBand handles formats like "B66", "n41", "b66" and "66".
func parseBand(value string) int32 {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.TrimPrefix(value, "lte")
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "b")
	value = strings.TrimPrefix(value, "n")
	if i, err := strconv.ParseInt(value, 10, 32); err == nil {
		return int32(i)
	}
	return unavailable
}

// parseBandwidth converts "20MHz", "20 MHz" or "20" to kHz.
func parseBandwidth(value string) int32 {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.TrimSuffix(value, "mhz")
	value = strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
		return toInt32(f * 1000)
	}
	return unavailable
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || f >= math.MaxInt32 || f <= math.MinInt32 {
		return unavailable
	}
	return int32(math.Round(f))
}
