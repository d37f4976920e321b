package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// processStart anchors the default since-boot clock.
var processStart = time.Now()

// ClientConfig contains configuration for connecting to a gateway.
type ClientConfig struct {
	// URL is the base URL of the gateway (e.g., http://192.168.12.1)
	URL string

	// Model is the gateway model (auto-detect if empty)
	Model GatewayModel

	// Timeout for HTTP requests
	Timeout time.Duration

	// Username for authentication (if required)
	Username string

	// Password for authentication (if required)
	Password string

	// InsecureSkipVerify skips TLS certificate verification
	InsecureSkipVerify bool

	// RateLimit caps gateway requests per second (0 = no limit)
	RateLimit float64

	// MCC and MNC identify the operator; gateways do not report them
	MCC string
	MNC string

	// SinceBoot returns the observation timestamp in nanoseconds on a
	// monotonic clock. Defaults to time since process start.
	SinceBoot func() uint64
}

// DefaultConfig returns a ClientConfig with default values.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		URL:                "http://192.168.12.1",
		Model:              ModelUnknown,
		Timeout:            10 * time.Second,
		InsecureSkipVerify: true,
		RateLimit:          2,
		MCC:                "310",
		MNC:                "260",
	}
}

func defaultSinceBoot() uint64 {
	return uint64(time.Since(processStart).Nanoseconds())
}

// NewClient creates a new gateway client based on the configuration.
// If model is not specified, it attempts to auto-detect the gateway type.
func NewClient(ctx context.Context, cfg ClientConfig) (GatewayClient, error) {
	if cfg.SinceBoot == nil {
		cfg.SinceBoot = defaultSinceBoot
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
			},
		},
	}

	// If model is specified, create the appropriate client
	switch cfg.Model {
	case ModelArcadyanKVD21:
		return NewArcadyanClient(cfg, httpClient)
	case ModelNokia:
		return NewNokiaClient(cfg, httpClient)
	case ModelSagemcom:
		return NewSagemcomClient(cfg, httpClient)
	case ModelUnknown, "":
		return autoDetectClient(ctx, cfg, httpClient)
	default:
		return nil, fmt.Errorf("unsupported gateway model: %s", cfg.Model)
	}
}

// autoDetectClient probes each gateway type in turn and returns the first
// one that answers with a usable observation.
func autoDetectClient(ctx context.Context, cfg ClientConfig, httpClient *http.Client) (GatewayClient, error) {
	candidates := []func() (GatewayClient, error){
		// Arcadyan KVD21 is the most common T-Mobile gateway
		func() (GatewayClient, error) { return NewArcadyanClient(cfg, httpClient) },
		func() (GatewayClient, error) { return NewNokiaClient(cfg, httpClient) },
		func() (GatewayClient, error) { return NewSagemcomClient(cfg, httpClient) },
	}

	for _, newClient := range candidates {
		client, err := newClient()
		if err != nil {
			continue
		}
		obs, err := client.Observe(ctx)
		if err == nil && (len(obs.Cells) > 0 || obs.Connection.Type == "5G") {
			return client, nil
		}
		client.Close()
	}

	return nil, fmt.Errorf("could not auto-detect gateway model at %s", cfg.URL)
}

// fetcher performs rate-limited JSON GETs against a gateway.
type fetcher struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newFetcher(cfg ClientConfig, httpClient *http.Client) *fetcher {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)+1)
	}
	return &fetcher{
		baseURL:    cfg.URL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// getBody fetches path and returns the response body.
func (f *fetcher) getBody(ctx context.Context, path string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.username != "" {
		req.SetBasicAuth(f.username, f.password)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// getJSON fetches path and decodes the JSON body into v.
func (f *fetcher) getJSON(ctx context.Context, path string, v any) error {
	body, err := f.getBody(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
