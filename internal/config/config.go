package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process settings read from the environment.
type Config struct {
	DatabaseURL         string `envconfig:"DATABASE_URL"`
	DatabaseName        string `envconfig:"DATABASE_NAME"`
	Port                string `envconfig:"PORT" default:"8000"`
	LogLevel            string `envconfig:"LOG_LEVEL" default:"info"`
	OrderEventsQueueURL string `envconfig:"ORDER_EVENTS_QUEUE_URL"`
	MetricsNamespace    string `envconfig:"METRICS_NAMESPACE"`
}

// Load reads Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address for the local HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// DatabaseURLSet reports whether a store connection string was provided.
func (c *Config) DatabaseURLSet() bool {
	return c.DatabaseURL != ""
}

// InLambda reports whether the process was started by the AWS Lambda runtime.
func InLambda() bool {
	return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
}
