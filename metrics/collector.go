// Package metrics provides Prometheus metric collection for cell observations.
package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
	"github.com/tmobile-dashboard/cellinfo/gateway"
	"github.com/tmobile-dashboard/cellinfo/logging"
)

// Recorder persists observations. *store.DB satisfies it.
type Recorder interface {
	Put(obs *gateway.Observation) ([]byte, error)
}

// CollectorConfig holds optional collector dependencies.
type CollectorConfig struct {
	// Recorder receives every fresh observation (optional)
	Recorder Recorder

	// Logger defaults to a no-op logger
	Logger logging.Logger

	// MinInterval is the minimum age of the cached observation before the
	// gateway is asked again. Scrapes inside the window reuse the cache.
	MinInterval time.Duration

	// Timeout bounds a single gateway observation (default 10s)
	Timeout time.Duration
}

// Collector implements prometheus.Collector for gateway cell observations.
type Collector struct {
	client   gateway.GatewayClient
	recorder Recorder
	logger   logging.Logger

	minInterval time.Duration
	timeout     time.Duration
	now         func() time.Time

	mu     sync.Mutex
	last   *gateway.Observation
	lastAt time.Time

	// Signal metrics
	dbmDesc   *prometheus.Desc
	levelDesc *prometheus.Desc
	rsrpDesc  *prometheus.Desc
	rsrqDesc  *prometheus.Desc
	sinrDesc  *prometheus.Desc
	rssiDesc  *prometheus.Desc

	// Cell metrics
	registeredDesc *prometheus.Desc
	pciDesc        *prometheus.Desc
	enbDesc        *prometheus.Desc
	tacDesc        *prometheus.Desc
	bandDesc       *prometheus.Desc
	cellsDesc      *prometheus.Desc

	// Connection metrics
	connectionTypeDesc *prometheus.Desc

	// Scrape metrics
	scrapeSuccessDesc  *prometheus.Desc
	scrapeDurationDesc *prometheus.Desc
	recordErrorsDesc   *prometheus.Desc

	recordErrors float64
}

// NewCollector creates a new Collector with the given gateway client.
func NewCollector(client gateway.GatewayClient, cfg CollectorConfig) *Collector {
	if cfg.Logger == nil {
		cfg.Logger = logging.Noop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cellLabels := []string{"model", "type", "operator", "connection_status", "cell"}
	modelLabels := []string{"model"}

	return &Collector{
		client:      client,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
		minInterval: cfg.MinInterval,
		timeout:     cfg.Timeout,
		now:         time.Now,

		// Signal metrics
		dbmDesc: prometheus.NewDesc(
			"cellinfo_signal_dbm",
			"Technology-specific signal strength in dBm",
			cellLabels,
			nil,
		),
		levelDesc: prometheus.NewDesc(
			"cellinfo_signal_level",
			"Signal level in bars (0-4)",
			cellLabels,
			nil,
		),
		rsrpDesc: prometheus.NewDesc(
			"cellinfo_signal_rsrp",
			"Reference Signal Received Power in dBm",
			cellLabels,
			nil,
		),
		rsrqDesc: prometheus.NewDesc(
			"cellinfo_signal_rsrq",
			"Reference Signal Received Quality in dB",
			cellLabels,
			nil,
		),
		sinrDesc: prometheus.NewDesc(
			"cellinfo_signal_sinr",
			"Signal to Interference Noise Ratio in dB",
			cellLabels,
			nil,
		),
		rssiDesc: prometheus.NewDesc(
			"cellinfo_signal_rssi",
			"Received Signal Strength Indicator in dBm",
			cellLabels,
			nil,
		),

		// Cell metrics
		registeredDesc: prometheus.NewDesc(
			"cellinfo_cell_registered",
			"Whether the device is registered on the cell",
			cellLabels,
			nil,
		),
		pciDesc: prometheus.NewDesc(
			"cellinfo_cell_pci",
			"Physical Cell ID",
			cellLabels,
			nil,
		),
		enbDesc: prometheus.NewDesc(
			"cellinfo_cell_enb",
			"eNodeB ID",
			cellLabels,
			nil,
		),
		tacDesc: prometheus.NewDesc(
			"cellinfo_cell_tac",
			"Tracking Area Code",
			cellLabels,
			nil,
		),
		bandDesc: prometheus.NewDesc(
			"cellinfo_cell_band",
			"Frequency band number",
			cellLabels,
			nil,
		),
		cellsDesc: prometheus.NewDesc(
			"cellinfo_cells",
			"Number of cells in the last observation",
			modelLabels,
			nil,
		),

		// Connection metrics
		connectionTypeDesc: prometheus.NewDesc(
			"cellinfo_connection_type",
			"Connection type (0=disconnected, 1=4G/LTE, 2=5G)",
			modelLabels,
			nil,
		),

		// Scrape metrics
		scrapeSuccessDesc: prometheus.NewDesc(
			"cellinfo_scrape_success",
			"Whether the last scrape was successful",
			nil,
			nil,
		),
		scrapeDurationDesc: prometheus.NewDesc(
			"cellinfo_scrape_duration_seconds",
			"Duration of the last scrape in seconds",
			nil,
			nil,
		),
		recordErrorsDesc: prometheus.NewDesc(
			"cellinfo_record_errors_total",
			"Observations that could not be written to the store",
			nil,
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dbmDesc
	ch <- c.levelDesc
	ch <- c.rsrpDesc
	ch <- c.rsrqDesc
	ch <- c.sinrDesc
	ch <- c.rssiDesc
	ch <- c.registeredDesc
	ch <- c.pciDesc
	ch <- c.enbDesc
	ch <- c.tacDesc
	ch <- c.bandDesc
	ch <- c.cellsDesc
	ch <- c.connectionTypeDesc
	ch <- c.scrapeSuccessDesc
	ch <- c.scrapeDurationDesc
	ch <- c.recordErrorsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		ch <- prometheus.MustNewConstMetric(c.scrapeDurationDesc, prometheus.GaugeValue, v)
	}))
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	obs, err := c.observe(ctx)
	ch <- prometheus.MustNewConstMetric(c.recordErrorsDesc, prometheus.CounterValue, c.recordErrors)
	if err != nil {
		c.logger.Error(ctx, "observe gateway failed", logging.Err(err))
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccessDesc, prometheus.GaugeValue, 0)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.scrapeSuccessDesc, prometheus.GaugeValue, 1)

	model := string(obs.Model)
	ch <- prometheus.MustNewConstMetric(c.cellsDesc, prometheus.GaugeValue, float64(len(obs.Cells)), model)
	ch <- prometheus.MustNewConstMetric(c.connectionTypeDesc, prometheus.GaugeValue, connectionType(obs.Connection), model)

	for i, cell := range obs.Cells {
		c.collectCell(ch, model, i, cell)
	}
}

// observe returns the cached observation while it is younger than
// minInterval, otherwise asks the gateway and records the result.
func (c *Collector) observe(ctx context.Context) (*gateway.Observation, error) {
	now := c.now()
	if c.last != nil && c.minInterval > 0 && now.Sub(c.lastAt) < c.minInterval {
		return c.last, nil
	}

	obs, err := c.client.Observe(ctx)
	if err != nil {
		return nil, err
	}
	c.last, c.lastAt = obs, now

	c.logger.Debug(ctx, "observed gateway",
		logging.String("model", string(obs.Model)),
		logging.String("connection", obs.Connection.Type),
		logging.Int("cells", len(obs.Cells)))

	if c.recorder != nil {
		if _, err := c.recorder.Put(obs); err != nil {
			c.recordErrors++
			c.logger.Warn(ctx, "record observation failed", logging.Err(err))
		}
	}
	return obs, nil
}

// collectCell emits the series of one cell. Unavailable fields are skipped.
func (c *Collector) collectCell(ch chan<- prometheus.Metric, model string, index int, cell cellinfo.CellInfo) {
	labels := []string{
		model,
		cell.Type().String(),
		cell.Identity().Operator(),
		cell.ConnectionStatus().String(),
		strconv.Itoa(index),
	}
	gauge := func(desc *prometheus.Desc, v int32) {
		if v == cellinfo.Unavailable {
			return
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v), labels...)
	}

	registered := 0.0
	if cell.Registered() {
		registered = 1
	}
	ch <- prometheus.MustNewConstMetric(c.registeredDesc, prometheus.GaugeValue, registered, labels...)

	ss := cell.SignalStrength()
	gauge(c.dbmDesc, ss.Dbm())
	ch <- prometheus.MustNewConstMetric(c.levelDesc, prometheus.GaugeValue, float64(ss.Level()), labels...)

	switch v := cell.(type) {
	case *cellinfo.LTE:
		id, sig := v.CellIdentity(), v.CellSignalStrength()
		gauge(c.rsrpDesc, sig.RSRP)
		gauge(c.rsrqDesc, sig.RSRQ)
		gauge(c.sinrDesc, sig.RSSNR)
		gauge(c.rssiDesc, sig.RSSI)
		gauge(c.pciDesc, id.PCI)
		gauge(c.enbDesc, id.ENB())
		gauge(c.tacDesc, id.TAC)
		gauge(c.bandDesc, id.Band)
	case *cellinfo.GSM:
		gauge(c.rssiDesc, v.CellSignalStrength().RSSI)
	case *cellinfo.WCDMA:
		gauge(c.rssiDesc, v.CellSignalStrength().RSSI)
	case *cellinfo.TDSCDMA:
		gauge(c.rssiDesc, v.CellSignalStrength().RSSI)
	}
}

// connectionType maps the connection to 0 (disconnected), 1 (LTE) or 2 (5G).
func connectionType(conn gateway.ConnectionInfo) float64 {
	switch {
	case conn.Type == "5G":
		return 2
	case conn.Status == "disconnected":
		return 0
	default:
		return 1
	}
}

// Close releases resources held by the collector.
func (c *Collector) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
