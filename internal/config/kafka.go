package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"graphql-crm"`
	Group     string   `env:"KAFKA_GROUP" envDefault:"graphql-crm"`

	PingTimeout time.Duration `env:"KAFKA_PING_TIMEOUT" envDefault:"5s"`
	// DeliveryTimeout bounds how long a produced record may wait, including
	// retries, before its produce fails.
	DeliveryTimeout time.Duration `env:"KAFKA_DELIVERY_TIMEOUT" envDefault:"30s"`
}
