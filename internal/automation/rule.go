package automation

import "github.com/ashdale-labs/homecore/internal/sensor"

// Rule links a sensor condition to a device action. Rules are
// evaluated in registration order on every processed reading.
type Rule struct {
	// Name identifies the rule in logs and alerts.
	Name string `json:"name"`

	// SensorType selects which readings the rule inspects.
	SensorType sensor.Type `json:"-"`

	// Threshold is the trigger boundary for the reading value.
	Threshold float64 `json:"threshold"`

	// TriggerAbove fires the rule when the value exceeds Threshold;
	// otherwise the rule fires when the value falls below it.
	TriggerAbove bool `json:"trigger_above"`

	// TargetDevice is the device id the action applies to.
	TargetDevice string `json:"target_device"`

	// Action is the device operation: activate, deactivate or reset.
	Action string `json:"action"`

	// AlertSeverity raises an alert when positive (1=low, 2=medium,
	// 3=high). Zero disables alerting for this rule.
	AlertSeverity int `json:"alert_severity,omitempty"`

	// AlertMessage is the alert body when AlertSeverity is positive.
	AlertMessage string `json:"alert_message,omitempty"`
}

// triggered reports whether a reading value crosses the rule boundary.
func (r Rule) triggered(value float64) bool {
	if r.TriggerAbove {
		return value > r.Threshold
	}
	return value < r.Threshold
}
