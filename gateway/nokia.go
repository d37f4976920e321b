package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NokiaClient implements GatewayClient for Nokia FastMile 5G gateways.
// Tested with Nokia FastMile 5G Gateway (model 5G21).
type NokiaClient struct {
	config  ClientConfig
	fetcher *fetcher
}

// nokiaRadioStatus represents the JSON response from Nokia's radio status endpoint.
type nokiaRadioStatus struct {
	// 5G NR stats
	Cell5G nokiaCellStats `json:"cell_5G_stats"`
	// LTE stats
	CellLTE nokiaCellStats `json:"cell_LTE_stats"`
}

type nokiaCellStats struct {
	RSRP      interface{} `json:"rsrp"`
	RSRQ      interface{} `json:"rsrq"`
	RSSI      interface{} `json:"rssi"`
	SINR      interface{} `json:"sinr"`
	SNR       interface{} `json:"snr"`
	Band      interface{} `json:"band"`
	PCI       interface{} `json:"pci"`
	CellID    interface{} `json:"cid"`
	EARFCN    interface{} `json:"earfcn"`
	Bandwidth interface{} `json:"bandwidth"`
	TAC       interface{} `json:"tac"`
	// Connection state
	State string `json:"state"`
}

// nokiaEndpoints are tried in order until one answers.
var nokiaEndpoints = []string{
	"/fastmile_radio_status_web_app.cgi",
	"/api/model/gateway",
	"/api/v1/network/status",
}

// NewNokiaClient creates a new client for Nokia gateways.
func NewNokiaClient(cfg ClientConfig, httpClient *http.Client) (*NokiaClient, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if cfg.SinceBoot == nil {
		cfg.SinceBoot = defaultSinceBoot
	}
	return &NokiaClient{
		config:  cfg,
		fetcher: newFetcher(cfg, httpClient),
	}, nil
}

// Observe retrieves the LTE carrier the gateway reports.
func (c *NokiaClient) Observe(ctx context.Context) (*Observation, error) {
	radioStatus, err := c.getRadioStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get radio status: %w", err)
	}

	obs := &Observation{
		Model:      ModelNokia,
		CapturedAt: time.Now(),
		Connection: ConnectionInfo{Type: "LTE", Status: "connected"},
	}

	nr := c.toReading(&radioStatus.Cell5G)
	if radioStatus.Cell5G.State == "connected" || nr.hasSignal() {
		obs.Connection.Type = "5G"
	}

	var readings []lteReading
	lte := c.toReading(&radioStatus.CellLTE)
	if radioStatus.CellLTE.State == "connected" || lte.hasSignal() {
		readings = append(readings, lte)
	} else if obs.Connection.Type != "5G" {
		obs.Connection.Status = "disconnected"
	}

	cells, err := assembleLTE(c.config, readings)
	if err != nil {
		return nil, err
	}
	obs.Cells = cells

	return obs, nil
}

// getRadioStatus fetches the radio status from the Nokia gateway.
func (c *NokiaClient) getRadioStatus(ctx context.Context) (*nokiaRadioStatus, error) {
	var lastErr error
	for _, endpoint := range nokiaEndpoints {
		body, err := c.fetcher.getBody(ctx, endpoint)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		var radioStatus nokiaRadioStatus
		if err := json.Unmarshal(body, &radioStatus); err != nil {
			// Try alternate response format
			var altResponse map[string]interface{}
			if err2 := json.Unmarshal(body, &altResponse); err2 != nil {
				lastErr = fmt.Errorf("failed to parse JSON response: %w", err)
				continue
			}
			radioStatus = c.parseAlternateFormat(altResponse)
		}

		return &radioStatus, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("could not connect to Nokia gateway")
}

// parseAlternateFormat handles different JSON response formats from Nokia gateways.
func (c *NokiaClient) parseAlternateFormat(data map[string]interface{}) nokiaRadioStatus {
	var result nokiaRadioStatus

	if cell5g, ok := data["cell_5G_stats"].(map[string]interface{}); ok {
		result.Cell5G = c.mapToNokiaCellStats(cell5g)
	} else if cell5g, ok := data["5g"].(map[string]interface{}); ok {
		result.Cell5G = c.mapToNokiaCellStats(cell5g)
	}

	if cellLTE, ok := data["cell_LTE_stats"].(map[string]interface{}); ok {
		result.CellLTE = c.mapToNokiaCellStats(cellLTE)
	} else if cellLTE, ok := data["lte"].(map[string]interface{}); ok {
		result.CellLTE = c.mapToNokiaCellStats(cellLTE)
	}

	return result
}

// mapToNokiaCellStats converts a generic map to nokiaCellStats.
func (c *NokiaClient) mapToNokiaCellStats(data map[string]interface{}) nokiaCellStats {
	state, _ := data["state"].(string)
	return nokiaCellStats{
		RSRP:      data["rsrp"],
		RSRQ:      data["rsrq"],
		RSSI:      data["rssi"],
		SINR:      data["sinr"],
		SNR:       data["snr"],
		Band:      data["band"],
		PCI:       data["pci"],
		CellID:    data["cid"],
		EARFCN:    data["earfcn"],
		TAC:       data["tac"],
		Bandwidth: data["bandwidth"],
		State:     state,
	}
}

// toReading extracts identity and signal fields from Nokia cell stats.
// Nokia reports the full ECI as "cid".
func (c *NokiaClient) toReading(stats *nokiaCellStats) lteReading {
	rd := newLTEReading()
	rd.RSRP = numeric(stats.RSRP)
	rd.RSRQ = numeric(stats.RSRQ)
	rd.RSSI = numeric(stats.RSSI)
	rd.SINR = numeric(stats.SINR)
	if rd.SINR == unavailable {
		rd.SINR = numeric(stats.SNR)
	}
	rd.PCI = numeric(stats.PCI)
	rd.CellID = numeric(stats.CellID)
	rd.TAC = numeric(stats.TAC)
	rd.EARFCN = numeric(stats.EARFCN)
	rd.Band = bandNumber(stats.Band)
	if s, ok := stats.Bandwidth.(string); ok {
		rd.Bandwidth = parseBandwidth(s)
	} else if mhz := numeric(stats.Bandwidth); mhz != unavailable {
		rd.Bandwidth = mhz * 1000
	}
	return rd
}

// numeric handles the numeric formats that may come from the API.
func numeric(v interface{}) int32 {
	switch val := v.(type) {
	case float64:
		return toInt32(val)
	case float32:
		return toInt32(float64(val))
	case int:
		return toInt32(float64(val))
	case int64:
		return toInt32(float64(val))
	case string:
		return parseReading(val)
	}
	return unavailable
}

// bandNumber extracts the band number from various formats.
func bandNumber(v interface{}) int32 {
	if s, ok := v.(string); ok {
		return parseBand(s)
	}
	return numeric(v)
}

// GetModel returns the gateway model type.
func (c *NokiaClient) GetModel() GatewayModel {
	return ModelNokia
}

// Close releases any resources held by the client.
func (c *NokiaClient) Close() error {
	return nil
}
