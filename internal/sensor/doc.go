// Package sensor provides simulated sensor drivers and the read-loop
// service that feeds readings into the processing pipeline.
//
// # Drivers
//
// Three built-in drivers simulate common home sensors:
//
//   - Temperature: gradual drift around 22 °C, clamped to [-40, 85]
//   - Humidity: gradual drift around 55 %RH, clamped to [0, 100]
//   - Motion: probabilistic PIR trigger producing 0.0 or 1.0
//
// Each Read applies the driver's calibration offset and validity check
// before the reading ever reaches the pipeline. Custom drivers register
// through Factory.Register and become creatable by type name alongside
// the built-ins.
//
// # Service
//
// Service owns the read loop: on every tick it reads each registered
// sensor, passes the reading through the Pipeline, and publishes a
// bus.SensorEvent for valid results. Invalid readings are logged at
// debug level and dropped. The loop runs until its context is cancelled
// or an optional cycle budget is exhausted.
//
// # Usage
//
//	factory := sensor.NewFactory()
//	temp, _ := factory.Create("temperature", "living-room", 4)
//
//	svc := sensor.NewService(pipe, eventBus, 2*time.Second, 0)
//	svc.AddSensor(temp)
//	go svc.Run(ctx)
package sensor
