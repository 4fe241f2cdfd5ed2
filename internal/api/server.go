// Package api provides the HTTP REST API and WebSocket server for the
// core.
//
// It exposes device lifecycle operations, automation rule inspection,
// command history with undo/redo, and real-time event streaming to user
// interfaces.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ashdale-labs/homecore/internal/automation"
	"github.com/ashdale-labs/homecore/internal/bus"
	"github.com/ashdale-labs/homecore/internal/device"
	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
	"github.com/ashdale-labs/homecore/internal/infrastructure/logging"
	"github.com/ashdale-labs/homecore/internal/pipeline"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Logger     *logging.Logger
	Bus        *bus.Bus
	Controller *device.Controller
	Rules      *automation.Service
	Pipeline   *pipeline.Pipeline
	Version    string
}

// Server is the HTTP API server for the core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	bus        *bus.Bus
	controller *device.Controller
	rules      *automation.Service
	pipeline   *pipeline.Pipeline
	version    string
	server     *http.Server
	hub        *Hub
	cancel     context.CancelFunc

	busSubs []busSubscription
}

// busSubscription records a bus subscription for teardown on Close.
type busSubscription struct {
	topic string
	id    bus.SubscriptionID
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Bus == nil {
		return nil, fmt.Errorf("event bus is required")
	}
	if deps.Controller == nil {
		return nil, fmt.Errorf("device controller is required")
	}

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		logger:     deps.Logger,
		bus:        deps.Bus,
		controller: deps.Controller,
		rules:      deps.Rules,
		pipeline:   deps.Pipeline,
		version:    deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, subscribes to bus
// topics for real-time broadcast, and launches the HTTP listener in a
// background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	if err := s.subscribeBusEvents(); err != nil {
		return fmt.Errorf("api: bus subscriptions: %w", err)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// subscribeBusEvents mirrors core bus topics into the WebSocket hub,
// using the topic name as the broadcast channel.
func (s *Server) subscribeBusEvents() error {
	readingSub, err := bus.Subscribe(s.bus, bus.TopicSensorReading, func(e bus.SensorEvent) {
		s.hub.Broadcast(bus.TopicSensorReading, e)
	})
	if err != nil {
		return err
	}
	s.busSubs = append(s.busSubs, busSubscription{bus.TopicSensorReading, readingSub})

	stateSub, err := bus.Subscribe(s.bus, bus.TopicDeviceState, func(e bus.DeviceEvent) {
		s.hub.Broadcast(bus.TopicDeviceState, e)
	})
	if err != nil {
		return err
	}
	s.busSubs = append(s.busSubs, busSubscription{bus.TopicDeviceState, stateSub})

	alertSub, err := bus.Subscribe(s.bus, bus.TopicAlert, func(e bus.AlertEvent) {
		s.hub.Broadcast(bus.TopicAlert, e)
	})
	if err != nil {
		return err
	}
	s.busSubs = append(s.busSubs, busSubscription{bus.TopicAlert, alertSub})

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	for _, sub := range s.busSubs {
		s.bus.Unsubscribe(sub.topic, sub.id)
	}
	s.busSubs = nil

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
