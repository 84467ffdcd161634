package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "PHOTOFEED_"

// parseEnv overlays PHOTOFEED_* variables, e.g. PHOTOFEED_DATABASE_DSN or
// PHOTOFEED_KAFKA_BROKERS=broker1:9092,broker2:9092.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}

	strs := map[string]*string{
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"S3_ACCESS_KEY":    &config.S3AccessKey,
		"S3_SECRET_KEY":    &config.S3SecretKey,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"S3_PUBLIC_URL":    &config.S3PublicURL,
		"REDIS_ADDR":       &config.RedisAddr,
		"EVENTS_BACKEND":   &config.EventsBackend,
		"NATS_URL":         &config.NatsURL,
		"GRAPH_BACKEND":    &config.GraphBackend,
		"NEO4J_URI":        &config.Neo4jURI,
		"NEO4J_USER":       &config.Neo4jUser,
		"NEO4J_PASSWORD":   &config.Neo4jPassword,
		"METRICS_ADDR":     &config.MetricsAddr,
		"OTEL_ENDPOINT":    &config.OtelEndpoint,
		"ENV":              &config.Env,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_TTL": &config.RefreshTokenValidityDuration,
		"SHUTDOWN_TIMEOUT":  &config.ShutdownTimeout,
	}
	for name, dst := range durations {
		if v, ok := lookup(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"FANOUT_BATCH_SIZE":  &config.FanoutBatchSize,
		"FANOUT_CONCURRENCY": &config.FanoutConcurrency,
	}
	for name, dst := range ints {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup(envPrefix + "KAFKA_BROKERS"); ok {
		config.KafkaBrokers = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
