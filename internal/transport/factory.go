package transport

import (
	"fmt"

	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
)

// New builds the configured protocol, wrapped in the site adapter.
//
// Returns ErrUnknownProtocol for protocols other than mqtt and http.
func New(cfg config.TransportConfig, logger Logger) (Protocol, error) {
	var inner Protocol

	switch cfg.Protocol {
	case "mqtt":
		p := NewMQTTProtocol(cfg.MQTT)
		p.SetLogger(logger)
		inner = p
	case "http":
		p := NewHTTPProtocol(cfg.HTTP)
		p.SetLogger(logger)
		inner = p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, cfg.Protocol)
	}

	return NewAdapter(inner, cfg.TopicPrefix), nil
}
