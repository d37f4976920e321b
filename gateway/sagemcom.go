package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupported is returned by gateways whose radio status API is not
// implemented yet.
var ErrUnsupported = errors.New("gateway model not supported")

// SagemcomClient implements GatewayClient for Sagemcom gateways.
// Sagemcom radio status is not implemented; Observe always fails, which
// also makes auto-detection skip it.
type SagemcomClient struct {
	config  ClientConfig
	fetcher *fetcher
}

// NewSagemcomClient creates a new client for Sagemcom gateways.
func NewSagemcomClient(cfg ClientConfig, httpClient *http.Client) (*SagemcomClient, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &SagemcomClient{
		config:  cfg,
		fetcher: newFetcher(cfg, httpClient),
	}, nil
}

// Observe returns ErrUnsupported.
func (c *SagemcomClient) Observe(ctx context.Context) (*Observation, error) {
	// TODO: map the Sagemcom /api/lte/status response once a device is
	// available to capture it from.
	return nil, fmt.Errorf("sagemcom: %w", ErrUnsupported)
}

// GetModel returns the gateway model type.
func (c *SagemcomClient) GetModel() GatewayModel {
	return ModelSagemcom
}

// Close releases any resources held by the client.
func (c *SagemcomClient) Close() error {
	return nil
}
