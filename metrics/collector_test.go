package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
	"github.com/tmobile-dashboard/cellinfo/gateway"
)

type fakeClient struct {
	obs    *gateway.Observation
	err    error
	calls  int
	closed bool
}

func (f *fakeClient) Observe(context.Context) (*gateway.Observation, error) {
	f.calls++
	return f.obs, f.err
}

func (f *fakeClient) GetModel() gateway.GatewayModel { return gateway.ModelNokia }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type fakeRecorder struct {
	puts int
	err  error
}

func (f *fakeRecorder) Put(*gateway.Observation) ([]byte, error) {
	f.puts++
	return nil, f.err
}

func testObservation(t *testing.T) *gateway.Observation {
	t.Helper()

	b := cellinfo.NewBuilder().
		SetRegistered(true).
		SetTimestampType(cellinfo.TimestampPlatformRadioLayer).
		SetConnectionStatus(cellinfo.ConnectionPrimaryServing)
	primary, err := b.LTE(
		&cellinfo.LTEIdentity{MCC: "310", MNC: "260", CI: 107331<<8 | 1, PCI: 271, TAC: 12345, EARFCN: 66986, Bandwidth: 20000, Band: 66},
		&cellinfo.LTESignalStrength{RSSI: -61, RSRP: -92, RSRQ: -11, RSSNR: 14, CQI: cellinfo.Unavailable, TimingAdvance: cellinfo.Unavailable})
	if err != nil {
		t.Fatalf("LTE: %v", err)
	}
	secondary, err := b.SetRegistered(false).SetConnectionStatus(cellinfo.ConnectionSecondaryServing).LTE(
		&cellinfo.LTEIdentity{MCC: "310", MNC: "260", CI: cellinfo.Unavailable, PCI: 88, TAC: cellinfo.Unavailable, EARFCN: cellinfo.Unavailable, Bandwidth: cellinfo.Unavailable, Band: 2},
		&cellinfo.LTESignalStrength{RSSI: cellinfo.Unavailable, RSRP: -104, RSRQ: -14, RSSNR: 3, CQI: cellinfo.Unavailable, TimingAdvance: cellinfo.Unavailable})
	if err != nil {
		t.Fatalf("LTE: %v", err)
	}

	return &gateway.Observation{
		Model:      gateway.ModelArcadyanKVD21,
		CapturedAt: time.Now(),
		Connection: gateway.ConnectionInfo{Type: "5G", Status: "connected"},
		Cells:      []cellinfo.CellInfo{primary, secondary},
	}
}

// gaugeValue gathers c and returns the value of the series of name whose
// labels include want.
func gaugeValue(t *testing.T, c prometheus.Collector, name string, want map[string]string) (float64, bool) {
	t.Helper()

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(c)
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched != len(want) {
				continue
			}
			if m.GetGauge() != nil {
				return m.GetGauge().GetValue(), true
			}
			return m.GetCounter().GetValue(), true
		}
	}
	return 0, false
}

func TestCollectorPerCellSeries(t *testing.T) {
	client := &fakeClient{obs: testObservation(t)}
	c := NewCollector(client, CollectorConfig{})

	if n := testutil.CollectAndCount(c, "cellinfo_signal_dbm"); n != 2 {
		t.Errorf("cellinfo_signal_dbm series = %d, want 2", n)
	}
	// The secondary cell has no RSSI, ENB or TAC.
	if n := testutil.CollectAndCount(c, "cellinfo_signal_rssi"); n != 1 {
		t.Errorf("cellinfo_signal_rssi series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(c, "cellinfo_cell_enb"); n != 1 {
		t.Errorf("cellinfo_cell_enb series = %d, want 1", n)
	}

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"cellinfo_signal_rsrp", map[string]string{"cell": "0", "connection_status": "primary_serving"}, -92},
		{"cellinfo_signal_rsrp", map[string]string{"cell": "1", "connection_status": "secondary_serving"}, -104},
		{"cellinfo_signal_level", map[string]string{"cell": "0"}, 3},
		{"cellinfo_cell_enb", map[string]string{"cell": "0", "operator": "310260", "type": "lte"}, 107331},
		{"cellinfo_cell_band", map[string]string{"cell": "1"}, 2},
		{"cellinfo_cell_registered", map[string]string{"cell": "0"}, 1},
		{"cellinfo_cell_registered", map[string]string{"cell": "1"}, 0},
		{"cellinfo_cells", map[string]string{"model": "arcadyan_kvd21"}, 2},
		{"cellinfo_connection_type", map[string]string{"model": "arcadyan_kvd21"}, 2},
		{"cellinfo_scrape_success", nil, 1},
	}
	for _, tt := range tests {
		got, ok := gaugeValue(t, c, tt.name, tt.labels)
		if !ok {
			t.Errorf("%s%v: series missing", tt.name, tt.labels)
			continue
		}
		if got != tt.want {
			t.Errorf("%s%v = %v, want %v", tt.name, tt.labels, got, tt.want)
		}
	}
}

func TestCollectorScrapeFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("gateway unreachable")}
	c := NewCollector(client, CollectorConfig{})

	expected := `
# HELP cellinfo_scrape_success Whether the last scrape was successful
# TYPE cellinfo_scrape_success gauge
cellinfo_scrape_success 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "cellinfo_scrape_success"); err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(c, "cellinfo_signal_dbm"); n != 0 {
		t.Errorf("cellinfo_signal_dbm series = %d after failure, want 0", n)
	}
}

func TestCollectorRecordsAndCaches(t *testing.T) {
	client := &fakeClient{obs: testObservation(t)}
	rec := &fakeRecorder{}
	c := NewCollector(client, CollectorConfig{Recorder: rec, MinInterval: time.Minute})

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	testutil.CollectAndCount(c)
	testutil.CollectAndCount(c)
	if client.calls != 1 || rec.puts != 1 {
		t.Errorf("within interval: calls=%d puts=%d, want 1 1", client.calls, rec.puts)
	}

	now = now.Add(2 * time.Minute)
	testutil.CollectAndCount(c)
	if client.calls != 2 || rec.puts != 2 {
		t.Errorf("after interval: calls=%d puts=%d, want 2 2", client.calls, rec.puts)
	}
}

func TestCollectorRecordError(t *testing.T) {
	client := &fakeClient{obs: testObservation(t)}
	c := NewCollector(client, CollectorConfig{Recorder: &fakeRecorder{err: errors.New("disk full")}})

	got, ok := gaugeValue(t, c, "cellinfo_record_errors_total", nil)
	if !ok || got != 1 {
		t.Errorf("cellinfo_record_errors_total = %v (%v), want 1", got, ok)
	}
	if v, _ := gaugeValue(t, c, "cellinfo_scrape_success", nil); v != 1 {
		t.Errorf("record failure must not fail the scrape, success = %v", v)
	}
}

func TestConnectionType(t *testing.T) {
	tests := []struct {
		conn gateway.ConnectionInfo
		want float64
	}{
		{gateway.ConnectionInfo{Type: "5G", Status: "connected"}, 2},
		{gateway.ConnectionInfo{Type: "LTE", Status: "connected"}, 1},
		{gateway.ConnectionInfo{Type: "LTE", Status: "disconnected"}, 0},
	}
	for _, tt := range tests {
		if got := connectionType(tt.conn); got != tt.want {
			t.Errorf("connectionType(%+v) = %v, want %v", tt.conn, got, tt.want)
		}
	}
}

func TestCollectorClose(t *testing.T) {
	client := &fakeClient{}
	if err := NewCollector(client, CollectorConfig{}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !client.closed {
		t.Error("Close did not close the gateway client")
	}
}
