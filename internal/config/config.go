package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration. Everything comes from the
// environment; there are no CLI flags and no state files.
type Config struct {
	Port         string   `envconfig:"PORT" default:"5000"`
	WebURL       string   `envconfig:"WEB_URL" default:"http://localhost:3000"`
	Rooms        []string `envconfig:"ROOMS" default:"General,Technology,Gaming"`
	QueueSize    int      `envconfig:"QUEUE_SIZE" default:"10"`
	QueueWorkers int      `envconfig:"QUEUE_WORKERS" default:"10"`
}

// Load reads the configuration from the environment, falling back to the
// defaults above for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ListenAddr formats the configured port as a listen address.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}
