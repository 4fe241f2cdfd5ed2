package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestClient_ZeroValueSafe(t *testing.T) {
	c := &Client{}

	if c.IsConnected() {
		t.Error("zero client reports connected")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Writes on a disconnected client must be silent no-ops.
	c.WriteSensorReading("temp-1", "temperature", 21.9, 21.5, "°C")
	c.WriteDeviceTransition("fan-01", "idle", "active")
	c.WriteAlert("high-temp", 2)
	c.WritePoint("custom", nil, map[string]interface{}{"v": 1})
	c.Flush()
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}
