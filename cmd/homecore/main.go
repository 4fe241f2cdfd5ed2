// Homecore - Reactive Smart Home Core
//
// This is the main entry point for the homecore application. Homecore
// simulates a small smart-home installation end to end:
//   - Simulated sensors read on a fixed cadence
//   - Readings flow through a validate/filter/transform pipeline
//   - Automation rules react to readings and drive devices
//   - Processed readings fan out over MQTT or HTTP transport
//   - An optional REST/WebSocket API exposes live state
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ashdale-labs/homecore/internal/api"
	"github.com/ashdale-labs/homecore/internal/automation"
	"github.com/ashdale-labs/homecore/internal/bus"
	"github.com/ashdale-labs/homecore/internal/device"
	"github.com/ashdale-labs/homecore/internal/infrastructure/config"
	"github.com/ashdale-labs/homecore/internal/infrastructure/influxdb"
	"github.com/ashdale-labs/homecore/internal/infrastructure/logging"
	"github.com/ashdale-labs/homecore/internal/pipeline"
	"github.com/ashdale-labs/homecore/internal/sensor"
	"github.com/ashdale-labs/homecore/internal/telemetry"
	"github.com/ashdale-labs/homecore/internal/transport"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting homecore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "site", cfg.Site.Name)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Event bus ties every subsystem together
	b := bus.New()
	b.SetLogger(log)
	defer b.ClearAll()

	// Reading pipeline: validator -> filter -> transformer
	pl, err := buildPipeline(cfg, log)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	log.Info("pipeline assembled", "handlers", pl.HandlerNames())

	// Device controller with bounded command history
	ctrl := device.NewController(b, cfg.History.MaxDepth)
	ctrl.SetLogger(log)
	for _, d := range cfg.Devices {
		if regErr := ctrl.Register(d.ID, d.Name); regErr != nil {
			return fmt.Errorf("registering device %q: %w", d.ID, regErr)
		}
	}
	log.Info("devices registered", "count", len(cfg.Devices))

	// Automation rules react to readings on the bus
	rules := automation.NewService(b, ctrl)
	rules.SetLogger(log)
	for _, rc := range cfg.Automation.Rules {
		st, ok := sensor.ParseType(rc.SensorType)
		if !ok {
			log.Warn("skipping rule with unrecognised sensor type",
				"rule", rc.Name,
				"sensor_type", rc.SensorType,
			)
			continue
		}
		rules.AddRule(automation.Rule{
			Name:          rc.Name,
			SensorType:    st,
			Threshold:     rc.Threshold,
			TriggerAbove:  rc.TriggerAbove,
			TargetDevice:  rc.TargetDevice,
			Action:        rc.Action,
			AlertSeverity: rc.AlertSeverity,
			AlertMessage:  rc.AlertMessage,
		})
	}
	if startErr := rules.Start(); startErr != nil {
		return fmt.Errorf("starting automation: %w", startErr)
	}
	defer func() {
		log.Info("stopping automation")
		rules.Stop()
	}()
	log.Info("automation started", "rules", rules.RuleCount())

	// Simulated sensor fleet
	svc := sensor.NewService(pl, b, cfg.SensorInterval(), cfg.Sensors.MaxCycles)
	svc.SetLogger(log)
	if buildErr := buildSensors(cfg, svc, log); buildErr != nil {
		return fmt.Errorf("building sensors: %w", buildErr)
	}
	log.Info("sensors created", "count", svc.SensorCount(), "interval", cfg.SensorInterval())

	// Outbound transport (if enabled)
	if cfg.Transport.Enabled {
		proto, protoErr := transport.New(cfg.Transport, log)
		if protoErr != nil {
			return fmt.Errorf("creating transport: %w", protoErr)
		}
		relay := transport.NewRelay(b, proto)
		relay.SetLogger(log)
		if relayErr := relay.Start(ctx); relayErr != nil {
			return fmt.Errorf("starting transport relay: %w", relayErr)
		}
		defer func() {
			log.Info("stopping transport relay")
			if stopErr := relay.Stop(); stopErr != nil {
				log.Error("error stopping relay", "error", stopErr)
			}
		}()
		log.Info("transport relay started",
			"protocol", proto.Name(),
			"prefix", cfg.Transport.TopicPrefix,
		)
	} else {
		log.Info("transport disabled")
	}

	// Telemetry recorder backed by InfluxDB (if enabled)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(writeErr error) {
			log.Error("influxdb write error", "error", writeErr)
		})

		recorder := telemetry.NewRecorder(b, influxClient)
		recorder.SetLogger(log)
		if recErr := recorder.Start(); recErr != nil {
			return fmt.Errorf("starting telemetry recorder: %w", recErr)
		}
		defer func() {
			log.Info("stopping telemetry recorder")
			recorder.Stop()
		}()
		log.Info("telemetry recorder started",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("telemetry disabled")
	}

	// REST/WebSocket API (if enabled)
	if cfg.API.Enabled {
		apiServer, apiErr := api.New(api.Deps{
			Config:     cfg.API,
			WS:         cfg.WebSocket,
			Logger:     log,
			Bus:        b,
			Controller: ctrl,
			Rules:      rules,
			Pipeline:   pl,
			Version:    version,
		})
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			log.Info("stopping API server")
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
		log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)
	} else {
		log.Info("API disabled")
	}

	log.Info("initialisation complete, entering read loop")

	// Run the sensor read loop until shutdown or max cycles
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Run(gctx)
	})

	if waitErr := g.Wait(); waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return fmt.Errorf("sensor service: %w", waitErr)
	}

	log.Info("shutdown signal received, cleaning up")

	// Deferred cleanup runs in reverse order:
	// 1. API server (if enabled)
	// 2. Telemetry recorder and InfluxDB (if enabled)
	// 3. Transport relay (if enabled)
	// 4. Automation service
	// 5. Event bus

	log.Info("homecore stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMECORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMECORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildPipeline assembles the reading pipeline from configuration.
func buildPipeline(cfg *config.Config, log *logging.Logger) (*pipeline.Pipeline, error) {
	pl := pipeline.New()
	pl.SetLogger(log)

	validator := pipeline.NewValidator(cfg.Pipeline.MinValid, cfg.Pipeline.MaxValid)
	validator.SetLogger(log)
	pl.AddHandler(validator)

	strategy, err := pipeline.ParseStrategy(cfg.Pipeline.FilterStrategy)
	if err != nil {
		return nil, err
	}
	pl.AddHandler(pipeline.NewFilter(strategy, cfg.Pipeline.WindowSize))

	transformer := pipeline.NewTransformer()
	for _, t := range cfg.Pipeline.Transforms {
		st, ok := sensor.ParseType(t.SensorType)
		if !ok {
			log.Warn("skipping transform with unrecognised sensor type",
				"sensor_type", t.SensorType,
			)
			continue
		}
		transformer.SetTransform(st, pipeline.Linear(t.Scale, t.Offset))
	}
	pl.AddHandler(transformer)

	return pl, nil
}

// buildSensors creates the enabled sensors and adds them to the service.
func buildSensors(cfg *config.Config, svc *sensor.Service, log *logging.Logger) error {
	factory := sensor.NewFactory()

	add := func(typeName string, sc config.SensorConfig) error {
		if !sc.Enabled {
			log.Info("sensor disabled", "type", typeName, "name", sc.Name)
			return nil
		}
		s, err := factory.Create(typeName, sc.Name, sc.Pin)
		if err != nil {
			return err
		}
		if sc.CalibrationOffset != nil {
			s.Calibrate(*sc.CalibrationOffset)
			log.Info("sensor calibrated",
				"name", sc.Name,
				"offset", *sc.CalibrationOffset,
			)
		}
		svc.AddSensor(s)
		return nil
	}

	if err := add(sensor.TypeTemperature.String(), cfg.Sensors.Temperature); err != nil {
		return err
	}
	if err := add(sensor.TypeHumidity.String(), cfg.Sensors.Humidity); err != nil {
		return err
	}
	return add(sensor.TypeMotion.String(), cfg.Sensors.Motion)
}
