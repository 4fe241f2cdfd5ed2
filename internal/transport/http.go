package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
)

// HTTPProtocol delivers telemetry as JSON POSTs against a collector
// endpoint. Transient failures retry with exponential backoff.
type HTTPProtocol struct {
	baseURL    string
	retryCount uint64
	client     *http.Client
	connected  bool
	handler    MessageHandler
	logger     Logger
}

// NewHTTPProtocol creates an HTTP transport from config.
func NewHTTPProtocol(cfg config.HTTPConfig) *HTTPProtocol {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.RetryCount
	if retries < 0 {
		retries = 0
	}
	return &HTTPProtocol{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retryCount: uint64(retries),
		client:     &http.Client{Timeout: timeout},
		logger:     noopLogger{},
	}
}

// SetLogger installs a logger. Call before Connect.
func (p *HTTPProtocol) SetLogger(l Logger) {
	if l != nil {
		p.logger = l
	}
}

func (p *HTTPProtocol) Name() string { return "http" }

// SetMessageHandler is accepted for interface completeness; the HTTP
// transport is send-only and never invokes the handler.
func (p *HTTPProtocol) SetMessageHandler(h MessageHandler) {
	p.handler = h
}

// Connect validates the endpoint. HTTP is connectionless, so no socket
// is held open.
func (p *HTTPProtocol) Connect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	u, err := url.Parse(p.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid base url %q", ErrConnectFailed, p.baseURL)
	}

	p.connected = true
	p.logger.Info("http transport ready", "base_url", p.baseURL)
	return nil
}

func (p *HTTPProtocol) Close() error {
	p.connected = false
	p.client.CloseIdleConnections()
	return nil
}

func (p *HTTPProtocol) IsConnected() bool { return p.connected }

// Send posts the payload to baseURL/topic, retrying transient failures
// with exponential backoff.
func (p *HTTPProtocol) Send(topic string, payload []byte) error {
	if !p.connected {
		return ErrNotConnected
	}

	endpoint := p.baseURL + "/" + url.PathEscape(topic)

	post := func() error {
		resp, err := p.client.Post(endpoint, "application/json", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("server returned %s", resp.Status)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			// Client errors will not improve with retries.
			return backoff.Permanent(fmt.Errorf("server rejected payload: %s", resp.Status))
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.retryCount)
	if err := backoff.Retry(post, policy); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSendFailed, endpoint, err)
	}
	return nil
}
