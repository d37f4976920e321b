package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ArcadyanClient implements GatewayClient for the Arcadyan KVD21 gateway.
type ArcadyanClient struct {
	config  ClientConfig
	fetcher *fetcher
}

// arcadyanRadioStatus represents the JSON response from the radio status endpoint.
type arcadyanRadioStatus struct {
	Cell5GStats  []arcadyanCellStats `json:"cell_5G_stats_cfg"`
	CellLTEStats []arcadyanCellStats `json:"cell_LTE_stats_cfg"`
}

type arcadyanCellStats struct {
	StatRSRP   string `json:"stat_RSRP"`
	StatRSRQ   string `json:"stat_RSRQ"`
	StatRSSI   string `json:"stat_RSSI"`
	StatSNR    string `json:"stat_SNR"`
	StatSINR   string `json:"stat_SINR"`
	StatBand   string `json:"stat_Band"`
	StatPCI    string `json:"stat_PCI"`
	StatENBID  string `json:"stat_eNB_ID"`
	StatCellID string `json:"stat_Cell_ID"`
	StatTAC    string `json:"stat_TAC"`
	StatEARFCN string `json:"stat_EARFCN"`
	PhyCellID  string `json:"stat_PhyCellId"`
	Bandwidth  string `json:"stat_Bandwidth"`
}

const arcadyanRadioStatusPath = "/fastmile_radio_status_web_app.cgi"

// NewArcadyanClient creates a new client for Arcadyan KVD21 gateways.
func NewArcadyanClient(cfg ClientConfig, httpClient *http.Client) (*ArcadyanClient, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if cfg.SinceBoot == nil {
		cfg.SinceBoot = defaultSinceBoot
	}
	return &ArcadyanClient{
		config:  cfg,
		fetcher: newFetcher(cfg, httpClient),
	}, nil
}

// Observe retrieves the LTE carriers the gateway reports.
func (c *ArcadyanClient) Observe(ctx context.Context) (*Observation, error) {
	var radioStatus arcadyanRadioStatus
	// The CGI endpoint doesn't require authentication
	if err := c.fetcher.getJSON(ctx, arcadyanRadioStatusPath, &radioStatus); err != nil {
		return nil, fmt.Errorf("failed to get radio status: %w", err)
	}

	obs := &Observation{
		Model:      ModelArcadyanKVD21,
		CapturedAt: time.Now(),
		Connection: ConnectionInfo{Type: "LTE", Status: "connected"},
	}

	// A 5G NR carrier with signal means an NSA connection anchored on LTE
	if len(radioStatus.Cell5GStats) > 0 && radioStatus.Cell5GStats[0].StatRSRP != "" {
		obs.Connection.Type = "5G"
	}

	readings := make([]lteReading, 0, len(radioStatus.CellLTEStats))
	for i := range radioStatus.CellLTEStats {
		rd := c.toReading(&radioStatus.CellLTEStats[i])
		if !rd.hasSignal() {
			continue
		}
		readings = append(readings, rd)
	}
	if len(readings) == 0 && obs.Connection.Type != "5G" {
		obs.Connection.Status = "disconnected"
	}

	cells, err := assembleLTE(c.config, readings)
	if err != nil {
		return nil, err
	}
	obs.Cells = cells

	return obs, nil
}

// toReading extracts identity and signal fields from cell stats.
func (c *ArcadyanClient) toReading(stats *arcadyanCellStats) lteReading {
	rd := newLTEReading()
	rd.RSRP = parseReading(stats.StatRSRP)
	rd.RSRQ = parseReading(stats.StatRSRQ)
	rd.RSSI = parseReading(stats.StatRSSI)
	rd.SINR = parseReading(stats.StatSNR, stats.StatSINR)
	rd.PCI = parseInt(stats.StatPCI, stats.PhyCellID)
	rd.ENB = parseInt(stats.StatENBID)
	rd.CellID = parseInt(stats.StatCellID)
	rd.TAC = parseInt(stats.StatTAC)
	rd.EARFCN = parseInt(stats.StatEARFCN)
	rd.Band = parseBand(stats.StatBand)
	rd.Bandwidth = parseBandwidth(stats.Bandwidth)
	return rd
}

// GetModel returns the gateway model type.
func (c *ArcadyanClient) GetModel() GatewayModel {
	return ModelArcadyanKVD21
}

// Close releases any resources held by the client.
func (c *ArcadyanClient) Close() error {
	return nil
}
