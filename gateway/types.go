// Package gateway reads radio status from T-Mobile gateway devices and
// assembles it into cell info observations.
package gateway

import (
	"context"
	"time"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
)

// ConnectionInfo contains connection type and status.
type ConnectionInfo struct {
	// Type - Connection type (4G, 5G, LTE, etc.)
	Type string

	// Status - Connection status
	Status string
}

// Observation is one poll of a gateway.
type Observation struct {
	// Model is the gateway model that produced the observation
	Model GatewayModel

	// CapturedAt is the wall-clock time of the poll
	CapturedAt time.Time

	// Connection contains connection type and status
	Connection ConnectionInfo

	// Cells holds one cell info per reported LTE carrier, the serving
	// cell first. 5G NR carriers have no cell info variant and are
	// reflected only in Connection.
	Cells []cellinfo.CellInfo
}

// Serving returns the registered cell, or nil if there is none.
func (o *Observation) Serving() cellinfo.CellInfo {
	for _, c := range o.Cells {
		if c.Registered() {
			return c
		}
	}
	return nil
}

// GatewayModel represents supported gateway models.
type GatewayModel string

const (
	ModelArcadyanKVD21 GatewayModel = "arcadyan_kvd21"
	ModelNokia         GatewayModel = "nokia"
	ModelSagemcom      GatewayModel = "sagemcom"
	ModelUnknown       GatewayModel = "unknown"
)

// GatewayClient is the interface that gateway implementations must satisfy.
type GatewayClient interface {
	// Observe polls the gateway and returns the cells it reports.
	Observe(ctx context.Context) (*Observation, error)

	// GetModel returns the gateway model type.
	GetModel() GatewayModel

	// Close releases any resources held by the client.
	Close() error
}
