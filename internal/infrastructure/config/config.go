package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Homecore.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Logging    LoggingConfig    `yaml:"logging"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Devices    []DeviceConfig   `yaml:"devices"`
	Automation AutomationConfig `yaml:"automation"`
	History    HistoryConfig    `yaml:"history"`
	Transport  TransportConfig  `yaml:"transport"`
	API        APIConfig        `yaml:"api"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// PipelineConfig contains reading pipeline settings.
type PipelineConfig struct {
	// MinValid and MaxValid bound the validator stage. Readings outside the
	// range are marked invalid but still flow through the remaining stages.
	MinValid float64 `yaml:"min_valid"`
	MaxValid float64 `yaml:"max_valid"`

	// FilterStrategy selects the smoothing algorithm:
	// "none", "moving_average", "exponential", or "threshold".
	FilterStrategy string `yaml:"filter_strategy"`

	// WindowSize is the sliding window depth for the filter stage.
	WindowSize int `yaml:"window_size"`

	// Transforms apply a linear value*scale+offset conversion per sensor type.
	Transforms []TransformConfig `yaml:"transforms"`
}

// TransformConfig describes a per-sensor-type linear transform.
type TransformConfig struct {
	SensorType string  `yaml:"sensor_type"`
	Scale      float64 `yaml:"scale"`
	Offset     float64 `yaml:"offset"`
}

// SensorsConfig contains the simulated sensor fleet settings.
type SensorsConfig struct {
	// IntervalMS is the delay between read cycles in milliseconds.
	IntervalMS int `yaml:"interval_ms"`

	// MaxCycles limits the read loop; 0 means run until shutdown.
	MaxCycles int `yaml:"max_cycles"`

	Temperature SensorConfig `yaml:"temperature"`
	Humidity    SensorConfig `yaml:"humidity"`
	Motion      SensorConfig `yaml:"motion"`
}

// SensorConfig contains a single sensor's settings.
type SensorConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Name              string   `yaml:"name"`
	Pin               int      `yaml:"pin"`
	CalibrationOffset *float64 `yaml:"calibration_offset"`
}

// DeviceConfig describes a controllable device registered at startup.
type DeviceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// AutomationConfig contains the declarative rule set.
type AutomationConfig struct {
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig describes a sensor-threshold-to-device-action binding.
type RuleConfig struct {
	Name          string  `yaml:"name"`
	SensorType    string  `yaml:"sensor_type"`
	Threshold     float64 `yaml:"threshold"`
	TriggerAbove  bool    `yaml:"trigger_above"`
	TargetDevice  string  `yaml:"target_device"`
	Action        string  `yaml:"action"`
	AlertSeverity int     `yaml:"alert_severity"`
	AlertMessage  string  `yaml:"alert_message"`
}

// HistoryConfig contains command history settings.
type HistoryConfig struct {
	// MaxDepth bounds the undo history; the oldest command is evicted
	// when the bound is exceeded.
	MaxDepth int `yaml:"max_depth"`
}

// TransportConfig contains outbound transport settings.
type TransportConfig struct {
	Enabled bool `yaml:"enabled"`

	// Protocol selects the backend client: "mqtt" or "http".
	Protocol string `yaml:"protocol"`

	// TopicPrefix is prepended to outbound topics by the protocol adapter.
	TopicPrefix string `yaml:"topic_prefix"`

	MQTT MQTTConfig `yaml:"mqtt"`
	HTTP HTTPConfig `yaml:"http"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// HTTPConfig contains HTTP transport settings.
type HTTPConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutMS  int    `yaml:"timeout_ms"`
	RetryCount int    `yaml:"retry_count"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HOMECORE_SECTION_KEY
// For example: HOMECORE_MQTT_HOST, HOMECORE_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "home-001",
			Name: "Homecore",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Pipeline: PipelineConfig{
			MinValid:       0.5,
			MaxValid:       100.0,
			FilterStrategy: "moving_average",
			WindowSize:     5,
		},
		Sensors: SensorsConfig{
			IntervalMS: 1000,
			Temperature: SensorConfig{
				Enabled: true,
				Name:    "dht22-temp",
				Pin:     4,
			},
			Humidity: SensorConfig{
				Enabled: true,
				Name:    "dht22-hum",
				Pin:     4,
			},
			Motion: SensorConfig{
				Enabled: true,
				Name:    "pir-motion",
				Pin:     17,
			},
		},
		Devices: []DeviceConfig{
			{ID: "fan-01", Name: "Ceiling Fan"},
			{ID: "alarm-01", Name: "Intruder Alarm"},
		},
		Automation: AutomationConfig{
			Rules: []RuleConfig{
				{
					Name:          "high-temp-activate-fan",
					SensorType:    "temperature",
					Threshold:     30.0,
					TriggerAbove:  true,
					TargetDevice:  "fan-01",
					Action:        "activate",
					AlertSeverity: 2,
					AlertMessage:  "High temperature detected",
				},
				{
					Name:          "motion-activate-alarm",
					SensorType:    "motion",
					Threshold:     0.5,
					TriggerAbove:  true,
					TargetDevice:  "alarm-01",
					Action:        "activate",
					AlertSeverity: 3,
					AlertMessage:  "Motion detected",
				},
			},
		},
		History: HistoryConfig{
			MaxDepth: 100,
		},
		Transport: TransportConfig{
			Protocol:    "mqtt",
			TopicPrefix: "home/sensors",
			MQTT: MQTTConfig{
				Broker: MQTTBrokerConfig{
					Host:     "localhost",
					Port:     1883,
					ClientID: "homecore",
				},
				QoS: 1,
				Reconnect: MQTTReconnectConfig{
					InitialDelay: 1,
					MaxDelay:     60,
					MaxAttempts:  0,
				},
			},
			HTTP: HTTPConfig{
				BaseURL:    "http://localhost:8000/ingest",
				TimeoutMS:  5000,
				RetryCount: 3,
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HOMECORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOMECORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Transport
	if v := os.Getenv("HOMECORE_TRANSPORT_PROTOCOL"); v != "" {
		cfg.Transport.Protocol = v
	}
	if v := os.Getenv("HOMECORE_MQTT_HOST"); v != "" {
		cfg.Transport.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HOMECORE_MQTT_USERNAME"); v != "" {
		cfg.Transport.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HOMECORE_MQTT_PASSWORD"); v != "" {
		cfg.Transport.MQTT.Auth.Password = v
	}
	if v := os.Getenv("HOMECORE_HTTP_BASE_URL"); v != "" {
		cfg.Transport.HTTP.BaseURL = v
	}

	// API
	if v := os.Getenv("HOMECORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HOMECORE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// InfluxDB
	if v := os.Getenv("HOMECORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// validFilterStrategies lists the accepted pipeline.filter_strategy values.
var validFilterStrategies = map[string]bool{
	"none":           true,
	"moving_average": true,
	"exponential":    true,
	"threshold":      true,
}

// validRuleActions lists the accepted automation rule actions.
var validRuleActions = map[string]bool{
	"activate":   true,
	"deactivate": true,
	"reset":      true,
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	// Pipeline validation
	if c.Pipeline.MinValid >= c.Pipeline.MaxValid {
		errs = append(errs, "pipeline.min_valid must be less than pipeline.max_valid")
	}
	if c.Pipeline.WindowSize < 1 {
		errs = append(errs, "pipeline.window_size must be at least 1")
	}
	if !validFilterStrategies[c.Pipeline.FilterStrategy] {
		errs = append(errs, fmt.Sprintf("pipeline.filter_strategy %q is not recognised", c.Pipeline.FilterStrategy))
	}

	// Sensor validation
	if c.Sensors.IntervalMS < 1 {
		errs = append(errs, "sensors.interval_ms must be positive")
	}

	// Device validation
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if d.ID == "" {
			errs = append(errs, fmt.Sprintf("devices[%d].id is required", i))
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Sprintf("devices[%d].id %q is duplicated", i, d.ID))
		}
		seen[d.ID] = true
	}

	// Rule validation
	for i, r := range c.Automation.Rules {
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("automation.rules[%d].name is required", i))
		}
		if !validRuleActions[r.Action] {
			errs = append(errs, fmt.Sprintf("automation.rules[%d].action %q is not recognised", i, r.Action))
		}
		if r.AlertSeverity < 0 || r.AlertSeverity > 3 {
			errs = append(errs, fmt.Sprintf("automation.rules[%d].alert_severity must be 0-3", i))
		}
	}

	// History validation
	if c.History.MaxDepth < 1 {
		errs = append(errs, "history.max_depth must be at least 1")
	}

	// Transport validation
	switch c.Transport.Protocol {
	case "mqtt":
		if c.Transport.MQTT.QoS < 0 || c.Transport.MQTT.QoS > 2 {
			errs = append(errs, "transport.mqtt.qos must be 0, 1, or 2")
		}
	case "http":
		if c.Transport.HTTP.BaseURL == "" {
			errs = append(errs, "transport.http.base_url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("transport.protocol %q is not recognised (mqtt or http)", c.Transport.Protocol))
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SensorInterval returns the read-cycle interval as a Duration.
func (c *Config) SensorInterval() time.Duration {
	return time.Duration(c.Sensors.IntervalMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
