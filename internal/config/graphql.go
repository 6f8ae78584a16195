package config

// GraphQL configures the GraphQL endpoint.
type GraphQL struct {
	Pretty bool `env:"GRAPHQL_PRETTY" envDefault:"false"`

	// DefaultPageSize applies when a connection query passes neither first nor last.
	DefaultPageSize int `env:"GRAPHQL_DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"GRAPHQL_MAX_PAGE_SIZE" envDefault:"100"`
}
