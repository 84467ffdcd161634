package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/flagx"
	"github.com/dmitrijs2005/photofeed/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, which accepts both "1m" and integer nanoseconds. Keys that
// are absent leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3AccessKey                  string         `json:"s3_access_key"`
	S3SecretKey                  string         `json:"s3_secret_key"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	S3PublicURL                  string         `json:"s3_public_url"`
	RedisAddr                    string         `json:"redis_addr"`
	EventsBackend                string         `json:"events_backend"`
	NatsURL                      string         `json:"nats_url"`
	KafkaBrokers                 []string       `json:"kafka_brokers"`
	GraphBackend                 string         `json:"graph_backend"`
	Neo4jURI                     string         `json:"neo4j_uri"`
	Neo4jUser                    string         `json:"neo4j_user"`
	Neo4jPassword                string         `json:"neo4j_password"`
	MetricsAddr                  string         `json:"metrics_addr"`
	OtelEndpoint                 string         `json:"otel_endpoint"`
	Env                          string         `json:"env"`
	FanoutBatchSize              int            `json:"fanout_batch_size"`
	FanoutConcurrency            int            `json:"fanout_concurrency"`
	ShutdownTimeout              timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c/-config onto config. Without the
// flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.EventsBackend, c.EventsBackend)
	setString(&config.NatsURL, c.NatsURL)
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.GraphBackend, c.GraphBackend)
	setString(&config.Neo4jURI, c.Neo4jURI)
	setString(&config.Neo4jUser, c.Neo4jUser)
	setString(&config.Neo4jPassword, c.Neo4jPassword)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.OtelEndpoint, c.OtelEndpoint)
	setString(&config.Env, c.Env)
	if c.FanoutBatchSize != 0 {
		config.FanoutBatchSize = c.FanoutBatchSize
	}
	if c.FanoutConcurrency != 0 {
		config.FanoutConcurrency = c.FanoutConcurrency
	}
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
