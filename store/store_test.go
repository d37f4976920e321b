package store

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
	"github.com/tmobile-dashboard/cellinfo/gateway"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "cellinfo-store-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if !db.IsClosed() {
			db.Close()
		}
	})
	return db
}

func testObservation(t *testing.T, at time.Time, rsrp int32) *gateway.Observation {
	t.Helper()

	b := cellinfo.NewBuilder().
		SetRegistered(true).
		SetTimestamp(42_000_000_000).
		SetTimestampType(cellinfo.TimestampPlatformRadioLayer).
		SetConnectionStatus(cellinfo.ConnectionPrimaryServing)

	primary, err := b.LTE(
		&cellinfo.LTEIdentity{MCC: "310", MNC: "260", CI: 107331<<8 | 1, PCI: 271, TAC: 12345, EARFCN: 66986, Bandwidth: 20000, Band: 66},
		&cellinfo.LTESignalStrength{RSSI: -61, RSRP: rsrp, RSRQ: -11, RSSNR: 14, CQI: cellinfo.Unavailable, TimingAdvance: cellinfo.Unavailable})
	if err != nil {
		t.Fatalf("LTE: %v", err)
	}
	unavailable := cellinfo.UnavailableLTESignalStrength()
	secondary, err := b.SetRegistered(false).SetConnectionStatus(cellinfo.ConnectionSecondaryServing).LTE(
		&cellinfo.LTEIdentity{MCC: "310", MNC: "260", CI: cellinfo.Unavailable, PCI: 88, TAC: cellinfo.Unavailable, EARFCN: cellinfo.Unavailable, Bandwidth: cellinfo.Unavailable, Band: 2},
		&unavailable)
	if err != nil {
		t.Fatalf("LTE: %v", err)
	}

	return &gateway.Observation{
		Model:      gateway.ModelArcadyanKVD21,
		CapturedAt: at,
		Connection: gateway.ConnectionInfo{Type: "5G", Status: "connected"},
		Cells:      []cellinfo.CellInfo{primary, secondary},
	}
}

func TestOpenClose(t *testing.T) {
	db := openTestDB(t)

	if db.IsClosed() {
		t.Error("Database should not be closed")
	}
	if db.Path() == "" {
		t.Error("Path should not be empty")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !db.IsClosed() {
		t.Error("Database should be closed")
	}
	if err := db.Close(); err != ErrDatabaseClosed {
		t.Errorf("second Close = %v, want ErrDatabaseClosed", err)
	}

	if _, err := db.Put(testObservation(t, time.Now(), -92)); err != ErrDatabaseClosed {
		t.Errorf("Put after close = %v, want ErrDatabaseClosed", err)
	}
	if _, err := db.Latest(); err != ErrDatabaseClosed {
		t.Errorf("Latest after close = %v, want ErrDatabaseClosed", err)
	}
	if _, err := db.Count(); err != ErrDatabaseClosed {
		t.Errorf("Count after close = %v, want ErrDatabaseClosed", err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	db := openTestDB(t)
	path := db.Path()
	if _, err := db.Put(testObservation(t, time.Now(), -92)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	n, err := db2.Count()
	if err != nil || n != 1 {
		t.Errorf("Count after reopen = %d, %v; want 1", n, err)
	}
}

func TestPutLatest(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest on empty store = %v, want ErrNotFound", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := testObservation(t, base, -92)
	last := testObservation(t, base.Add(time.Minute), -100)

	// Insert out of order: keys sort by capture time, not insertion.
	if _, err := db.Put(last); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := db.Put(first); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := db.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !got.CapturedAt.Equal(last.CapturedAt) {
		t.Errorf("CapturedAt = %v, want %v", got.CapturedAt, last.CapturedAt)
	}
	if got.Model != last.Model || got.Connection != last.Connection {
		t.Errorf("metadata = %s %+v", got.Model, got.Connection)
	}
	if len(got.Cells) != len(last.Cells) {
		t.Fatalf("got %d cells, want %d", len(got.Cells), len(last.Cells))
	}
	for i := range got.Cells {
		if !got.Cells[i].Equal(last.Cells[i]) {
			t.Errorf("cell %d = %v\nwant %v", i, got.Cells[i], last.Cells[i])
		}
	}
	if got.Serving().SignalStrength().Dbm() != -100 {
		t.Errorf("serving Dbm = %d, want -100", got.Serving().SignalStrength().Dbm())
	}
}

func TestSameInstantKeepsBoth(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	k1, err := db.Put(testObservation(t, at, -92))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	k2, err := db.Put(testObservation(t, at, -95))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if bytes.Compare(k1, k2) >= 0 {
		t.Errorf("keys not increasing: %x %x", k1, k2)
	}

	n, err := db.Count()
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
}

func TestRange(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := db.Put(testObservation(t, base.Add(time.Duration(i)*time.Minute), int32(-90-i))); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	var got []int32
	err := db.Range(base.Add(time.Minute), base.Add(4*time.Minute), func(obs *gateway.Observation) error {
		got = append(got, obs.Serving().SignalStrength().Dbm())
		return nil
	})
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	want := []int32{-91, -92, -93}
	if len(got) != len(want) {
		t.Fatalf("Range returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Range[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	stop := errors.New("stop")
	calls := 0
	err = db.Range(base, base.Add(time.Hour), func(*gateway.Observation) error {
		calls++
		return stop
	})
	if err != stop || calls != 1 {
		t.Errorf("Range stop = %v after %d calls", err, calls)
	}
}

func TestPutRejectsNilCell(t *testing.T) {
	db := openTestDB(t)
	obs := testObservation(t, time.Now(), -92)
	obs.Cells = append(obs.Cells, nil)

	if _, err := db.Put(obs); !errors.Is(err, cellinfo.ErrNilCellInfo) {
		t.Errorf("Put = %v, want ErrNilCellInfo", err)
	}
}

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	key := EncodeSnapshotKey(at, 7)

	if !bytes.HasPrefix(key, []byte(PrefixSnapshot)) {
		t.Errorf("key %q lacks prefix", key)
	}
	gotAt, seq, err := DecodeSnapshotKey(key)
	if err != nil {
		t.Fatalf("DecodeSnapshotKey: %v", err)
	}
	if !gotAt.Equal(at) || seq != 7 {
		t.Errorf("decoded %v %d", gotAt, seq)
	}

	if bytes.Compare(EncodeSnapshotKey(at, 9), EncodeSnapshotKey(at.Add(time.Nanosecond), 0)) >= 0 {
		t.Error("later capture time must sort after any sequence")
	}
	if _, _, err := DecodeSnapshotKey([]byte("snap:short")); err == nil {
		t.Error("expected error for short key")
	}
	if _, _, err := DecodeSnapshotKey(MetaKey("schema")); err == nil {
		t.Error("expected error for meta key")
	}
}
