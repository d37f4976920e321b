package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tmobile-dashboard/cellinfo/gateway"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.Gateway != want.Gateway || cfg.Metrics != want.Metrics || cfg.Logging != want.Logging || cfg.Store != want.Store {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
gateway:
  url: http://10.0.0.1
  model: nokia
  poll_interval: 30s
  rate_limit: 0.5
  mcc: "234"
  mnc: "15"
metrics:
  port: 9200
store:
  path: /var/lib/cellinfo
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Gateway.URL != "http://10.0.0.1" || cfg.Gateway.PollInterval != 30*time.Second || cfg.Gateway.RateLimit != 0.5 {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
	if cfg.Metrics.Port != 9200 || cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
	if cfg.Store.Path != "/var/lib/cellinfo" || cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("store/logging = %+v %+v", cfg.Store, cfg.Logging)
	}

	gw := cfg.ToGatewayConfig()
	if gw.Model != gateway.ModelNokia || gw.MCC != "234" || gw.MNC != "15" || gw.RateLimit != 0.5 {
		t.Errorf("ToGatewayConfig = %+v", gw)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gateway: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CELLINFO_GATEWAY_URL", "http://192.168.0.1")
	t.Setenv("CELLINFO_GATEWAY_MODEL", "arcadyan")
	t.Setenv("CELLINFO_POLL_INTERVAL", "1m")
	t.Setenv("CELLINFO_METRICS_PORT", "9300")
	t.Setenv("CELLINFO_GATEWAY_USERNAME", "admin")
	t.Setenv("CELLINFO_GATEWAY_PASSWORD", "secret")
	t.Setenv("CELLINFO_LOG_LEVEL", "debug")
	t.Setenv("CELLINFO_LOG_FORMAT", "json")
	t.Setenv("CELLINFO_STORE_PATH", "/tmp/cells")

	cfg := DefaultConfig()
	LoadConfigFromEnv(&cfg)

	if cfg.Gateway.URL != "http://192.168.0.1" || cfg.Gateway.PollInterval != time.Minute {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
	if cfg.Gateway.Username != "admin" || cfg.Gateway.Password != "secret" {
		t.Errorf("credentials not applied: %+v", cfg.Gateway)
	}
	if cfg.Metrics.Port != 9300 {
		t.Errorf("port = %d", cfg.Metrics.Port)
	}
	if got := cfg.ToLoggingConfig(); got.Level != "debug" || got.Format != "json" {
		t.Errorf("logging = %+v", got)
	}
	if cfg.Store.Path != "/tmp/cells" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if cfg.ToGatewayConfig().Model != gateway.ModelArcadyanKVD21 {
		t.Errorf("model = %s", cfg.ToGatewayConfig().Model)
	}
}

func TestLoadConfigFromEnvIgnoresMalformed(t *testing.T) {
	t.Setenv("CELLINFO_POLL_INTERVAL", "often")
	t.Setenv("CELLINFO_METRICS_PORT", "ninety")

	cfg := DefaultConfig()
	LoadConfigFromEnv(&cfg)

	if cfg.Gateway.PollInterval != 5*time.Second || cfg.Metrics.Port != 9100 {
		t.Errorf("malformed values applied: %v %d", cfg.Gateway.PollInterval, cfg.Metrics.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no url", func(c *Config) { c.Gateway.URL = "" }, true},
		{"bad model", func(c *Config) { c.Gateway.Model = "huawei" }, true},
		{"model case", func(c *Config) { c.Gateway.Model = "NOKIA" }, false},
		{"bad port", func(c *Config) { c.Metrics.Port = 70000 }, true},
		{"bad path", func(c *Config) { c.Metrics.Path = "metrics" }, true},
		{"negative rate", func(c *Config) { c.Gateway.RateLimit = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToGatewayConfigUnknownModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gateway.Model = "huawei"
	if got := cfg.ToGatewayConfig().Model; got != gateway.ModelUnknown {
		t.Errorf("Model = %s, want %s", got, gateway.ModelUnknown)
	}
}
