// Package automation evaluates threshold rules against processed
// sensor readings and drives device actions in response.
//
// # Evaluation
//
// The engine holds one subscription to the sensor.reading topic. For
// every event it resolves the sensor type, then evaluates all rules
// registered for that type in order; every matching rule fires, not
// just the first. A rule triggers when the value crosses its threshold
// in the configured direction.
//
// Actions are guarded against redundant transitions: activate only
// applies to idle devices, deactivate only to active ones, reset only
// to errored ones. A guarded-out action is not an error.
//
// Rules with a positive severity also publish a bus.AlertEvent.
//
// # Usage
//
//	engine := automation.NewService(eventBus, controller)
//	engine.AddRule(automation.Rule{
//		Name:         "high-temp-activate-fan",
//		SensorType:   sensor.TypeTemperature,
//		Threshold:    30,
//		TriggerAbove: true,
//		TargetDevice: "fan-01",
//		Action:       "activate",
//		AlertSeverity: bus.SeverityMedium,
//		AlertMessage: "temperature above 30",
//	})
//	engine.Start()
//	defer engine.Stop()
package automation
