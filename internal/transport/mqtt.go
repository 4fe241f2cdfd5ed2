package transport

import (
	"context"
	"fmt"

	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
	"github.com/ashdale-labs/homecore/internal/infrastructure/mqtt"
)

// commandTopic is the inbound channel remote controllers publish on.
const commandTopic = "homecore/commands/#"

// MQTTProtocol delivers telemetry over an MQTT broker.
type MQTTProtocol struct {
	cfg     config.MQTTConfig
	client  *mqtt.Client
	handler MessageHandler
	logger  Logger
}

// NewMQTTProtocol creates an MQTT transport from broker config.
func NewMQTTProtocol(cfg config.MQTTConfig) *MQTTProtocol {
	return &MQTTProtocol{cfg: cfg, logger: noopLogger{}}
}

// SetLogger installs a logger. Call before Connect.
func (p *MQTTProtocol) SetLogger(l Logger) {
	if l != nil {
		p.logger = l
	}
}

func (p *MQTTProtocol) Name() string { return "mqtt" }

// SetMessageHandler installs the inbound command handler. Must be
// called before Connect for the subscription to be established.
func (p *MQTTProtocol) SetMessageHandler(h MessageHandler) {
	p.handler = h
}

// Connect dials the broker and, when a message handler is installed,
// subscribes to the inbound command topic.
func (p *MQTTProtocol) Connect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	client, err := mqtt.Connect(p.cfg)
	if err != nil {
		return fmt.Errorf("transport: mqtt connect: %w", err)
	}
	p.client = client

	if p.handler != nil {
		handler := p.handler
		err := client.Subscribe(commandTopic, byte(p.cfg.QoS), func(topic string, payload []byte) error {
			handler(topic, payload)
			return nil
		})
		if err != nil {
			client.Close()
			p.client = nil
			return fmt.Errorf("transport: mqtt subscribe: %w", err)
		}
	}

	p.logger.Info("mqtt transport connected",
		"broker", p.cfg.Broker.Host,
		"client_id", p.cfg.Broker.ClientID,
	)
	return nil
}

func (p *MQTTProtocol) Close() error {
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *MQTTProtocol) IsConnected() bool {
	return p.client != nil && p.client.IsConnected()
}

// Send publishes the payload on the given topic with the configured QoS.
func (p *MQTTProtocol) Send(topic string, payload []byte) error {
	if p.client == nil {
		return ErrNotConnected
	}
	return p.client.PublishWithDefaultQoS(topic, payload)
}
