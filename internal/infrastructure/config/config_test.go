package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "test-home"
pipeline:
  min_valid: 0.0
  max_valid: 50.0
  filter_strategy: "threshold"
  window_size: 3
transport:
  protocol: "mqtt"
  mqtt:
    broker:
      host: "broker.local"
      port: 1883
      client_id: "test-client"
    qos: 1
api:
  port: 9090
`
	cfg, err := Load(writeTestConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-home" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-home")
	}
	if cfg.Pipeline.FilterStrategy != "threshold" {
		t.Errorf("Pipeline.FilterStrategy = %q, want %q", cfg.Pipeline.FilterStrategy, "threshold")
	}
	if cfg.Pipeline.WindowSize != 3 {
		t.Errorf("Pipeline.WindowSize = %d, want 3", cfg.Pipeline.WindowSize)
	}
	if cfg.Transport.MQTT.Broker.Host != "broker.local" {
		t.Errorf("Transport.MQTT.Broker.Host = %q, want %q", cfg.Transport.MQTT.Broker.Host, "broker.local")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, "site:\n  id: minimal\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.FilterStrategy != "moving_average" {
		t.Errorf("default FilterStrategy = %q, want moving_average", cfg.Pipeline.FilterStrategy)
	}
	if cfg.Pipeline.WindowSize != 5 {
		t.Errorf("default WindowSize = %d, want 5", cfg.Pipeline.WindowSize)
	}
	if cfg.History.MaxDepth != 100 {
		t.Errorf("default History.MaxDepth = %d, want 100", cfg.History.MaxDepth)
	}
	if len(cfg.Automation.Rules) != 2 {
		t.Errorf("default rule count = %d, want 2", len(cfg.Automation.Rules))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTestConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "min above max",
			mutate:  func(c *Config) { c.Pipeline.MinValid = 200 },
			wantErr: true,
		},
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.Pipeline.WindowSize = 0 },
			wantErr: true,
		},
		{
			name:    "unknown filter strategy",
			mutate:  func(c *Config) { c.Pipeline.FilterStrategy = "kalman" },
			wantErr: true,
		},
		{
			name:    "duplicate device id",
			mutate:  func(c *Config) { c.Devices = append(c.Devices, DeviceConfig{ID: "fan-01"}) },
			wantErr: true,
		},
		{
			name:    "unknown rule action",
			mutate:  func(c *Config) { c.Automation.Rules[0].Action = "explode" },
			wantErr: true,
		},
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.Transport.MQTT.QoS = 5 },
			wantErr: true,
		},
		{
			name:    "unknown transport protocol",
			mutate:  func(c *Config) { c.Transport.Protocol = "carrier-pigeon" },
			wantErr: true,
		},
		{
			name:    "invalid history depth",
			mutate:  func(c *Config) { c.History.MaxDepth = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOMECORE_MQTT_HOST", "env-broker")
	t.Setenv("HOMECORE_API_PORT", "9999")

	cfg, err := Load(writeTestConfig(t, "site:\n  id: env-test\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Transport.MQTT.Broker.Host != "env-broker" {
		t.Errorf("env override MQTT host = %q, want env-broker", cfg.Transport.MQTT.Broker.Host)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("env override API port = %d, want 9999", cfg.API.Port)
	}
}
