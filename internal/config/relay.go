package config

import "time"

// Relay configures the outbox relay that publishes domain events to Kafka.
type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	// Concurrency caps the messages of one batch produced at the same time.
	Concurrency int `env:"RELAY_CONCURRENCY" envDefault:"16"`
	// StopTimeout bounds how long shutdown waits for an in-flight batch.
	StopTimeout time.Duration `env:"RELAY_STOP_TIMEOUT" envDefault:"5s"`
}
