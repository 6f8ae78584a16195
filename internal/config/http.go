package config

import "time"

type HTTP struct {
	Port            uint32        `env:"HTTP_PORT" envDefault:"8000"`
	Playground      bool          `env:"HTTP_PLAYGROUND" envDefault:"true"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" envDefault:"https://*,http://*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}
