// Command cellinfo-dump prints observations recorded by the exporter.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
	"github.com/tmobile-dashboard/cellinfo/gateway"
	"github.com/tmobile-dashboard/cellinfo/store"
)

const version = "1.0.0"

// cellSummary is the JSON form of one cell.
type cellSummary struct {
	Type             string `json:"type"`
	Registered       bool   `json:"registered"`
	ConnectionStatus string `json:"connection_status"`
	Operator         string `json:"operator,omitempty"`
	Dbm              *int32 `json:"dbm,omitempty"`
	Level            int32  `json:"level"`
	Detail           string `json:"detail"`
}

type observationSummary struct {
	Model      string        `json:"model"`
	CapturedAt time.Time     `json:"captured_at"`
	Connection string        `json:"connection"`
	Status     string        `json:"status"`
	Cells      []cellSummary `json:"cells"`
}

func main() {
	dbPath := flag.String("db", "./cellinfo-db", "Path to LevelDB snapshot store")
	latest := flag.Bool("latest", false, "Print only the most recent observation")
	since := flag.Duration("since", time.Hour, "Print observations captured within this window")
	jsonOutput := flag.Bool("json", false, "Output as JSON lines")
	showCount := flag.Bool("count", false, "Print the number of stored observations")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cellinfo-dump version %s\n", version)
		return
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := dump(db, *latest, *since, *jsonOutput, *showCount); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "No observations recorded")
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		db.Close()
		os.Exit(1)
	}
}

func dump(db *store.DB, latest bool, since time.Duration, jsonOutput, showCount bool) error {
	emit := func(obs *gateway.Observation) error {
		if jsonOutput {
			data, err := json.Marshal(summarize(obs))
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		printHumanReadable(obs)
		return nil
	}

	if showCount {
		n, err := db.Count()
		if err != nil {
			return err
		}
		fmt.Printf("Observations:       %d\n", n)
		return nil
	}

	if latest {
		obs, err := db.Latest()
		if err != nil {
			return err
		}
		return emit(obs)
	}

	now := time.Now()
	return db.Range(now.Add(-since), now.Add(time.Nanosecond), emit)
}

func summarize(obs *gateway.Observation) observationSummary {
	out := observationSummary{
		Model:      string(obs.Model),
		CapturedAt: obs.CapturedAt,
		Connection: obs.Connection.Type,
		Status:     obs.Connection.Status,
		Cells:      make([]cellSummary, 0, len(obs.Cells)),
	}
	for _, c := range obs.Cells {
		ss := c.SignalStrength()
		cs := cellSummary{
			Type:             c.Type().String(),
			Registered:       c.Registered(),
			ConnectionStatus: c.ConnectionStatus().String(),
			Operator:         c.Identity().Operator(),
			Level:            ss.Level(),
			Detail:           c.String(),
		}
		if dbm := ss.Dbm(); dbm != cellinfo.Unavailable {
			cs.Dbm = &dbm
		}
		out.Cells = append(out.Cells, cs)
	}
	return out
}

func printHumanReadable(obs *gateway.Observation) {
	fmt.Printf("Captured:           %s\n", obs.CapturedAt.Format(time.RFC3339))
	fmt.Printf("Model:              %s\n", obs.Model)
	fmt.Printf("Connection:         %s (%s)\n", obs.Connection.Type, obs.Connection.Status)
	for i, c := range obs.Cells {
		fmt.Printf("Cell %d:             %s\n", i, c)
	}
	fmt.Println()
}
