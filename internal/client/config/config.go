// Package config loads runtime configuration for the photofeed CLI: defaults,
// then a JSON file given with -c/-config, then PHOTOFEED_SERVER_ADDR, then
// the -a and -t flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the photofeed CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - RequestTimeout: deadline applied to every call made by a command.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 30 * time.Second
}

// Load builds a Config from defaults, the JSON file named in args, the
// environment and the flags in args. Later sources take precedence.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv("PHOTOFEED_SERVER_ADDR"); ok && v != "" {
			cfg.ServerEndpointAddr = v
		}
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the CLI configuration from os.Args and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}
