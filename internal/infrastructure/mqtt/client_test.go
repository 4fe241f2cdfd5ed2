package mqtt

import (
	"errors"
	"strings"
	"testing"

	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "homecore-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testMQTTConfig()
	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://localhost:1883" {
		t.Errorf("broker URL = %q, want tcp://localhost:1883", got)
	}
	if opts.ClientID != "homecore-test" {
		t.Errorf("client id = %q", opts.ClientID)
	}
	if !opts.AutoReconnect {
		t.Error("auto reconnect not enabled")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)
	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Error("TLS config not set")
	}
}

func TestBuildClientOptions_Auth(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Auth.Username = "core"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)
	if opts.Username != "core" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("homecore-test")
	if !strings.Contains(online, `"status":"online"`) {
		t.Errorf("online payload = %s", online)
	}
	if !strings.Contains(online, `"client_id":"homecore-test"`) {
		t.Errorf("online payload missing client id: %s", online)
	}

	offline := buildOfflinePayload("homecore-test")
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload = %s", offline)
	}
}

func TestPublish_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", nil, 0, ErrInvalidTopic},
		{"invalid qos", "home/sensors/x", nil, 3, ErrInvalidQoS},
		{"not connected", "home/sensors/x", []byte("{}"), 1, ErrNotConnected},
		{"oversized payload", "home/sensors/x", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v", err)
	}
	if err := c.Subscribe("home/sensors/x", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos error = %v", err)
	}
	if err := c.Subscribe("home/sensors/x", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v", err)
	}
	if err := c.Subscribe("home/sensors/x", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected error = %v", err)
	}
}

func TestClose_NilClient(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if c.SubscriptionCount() != 0 {
		t.Fatalf("count = %d, want 0", c.SubscriptionCount())
	}
	if c.HasSubscription("home/sensors/x") {
		t.Error("unexpected subscription")
	}
}
