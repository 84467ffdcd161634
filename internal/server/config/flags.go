package config

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/flagx"
)

var flagNames = []string{
	"-a", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e",
	"-public-url", "-redis", "-events", "-nats", "-kafka", "-graph",
	"-neo4j", "-neo4j-user", "-neo4j-password", "-metrics", "-otel", "-env",
	"-fanout-batch", "-fanout-workers",
}

// parseFlags populates Config fields from command-line flags.
//
// Short flags kept for the core settings:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The remaining settings use long names; see flagNames. Arguments the
// server does not own are filtered out first with flagx.FilterArgs.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("photofeed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "public-url", config.S3PublicURL, "public URL prefix of the bucket")

	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address for timelines")
	fs.StringVar(&config.EventsBackend, "events", config.EventsBackend, "event bus: none, nats or kafka")
	fs.StringVar(&config.NatsURL, "nats", config.NatsURL, "NATS URL")
	kafka := fs.String("kafka", strings.Join(config.KafkaBrokers, ","), "comma separated kafka brokers")
	fs.StringVar(&config.GraphBackend, "graph", config.GraphBackend, "graph store: postgres or neo4j")
	fs.StringVar(&config.Neo4jURI, "neo4j", config.Neo4jURI, "Neo4j URI")
	fs.StringVar(&config.Neo4jUser, "neo4j-user", config.Neo4jUser, "Neo4j user")
	fs.StringVar(&config.Neo4jPassword, "neo4j-password", config.Neo4jPassword, "Neo4j password")
	fs.StringVar(&config.MetricsAddr, "metrics", config.MetricsAddr, "metrics HTTP address")
	fs.StringVar(&config.OtelEndpoint, "otel", config.OtelEndpoint, "OTLP gRPC endpoint")
	fs.StringVar(&config.Env, "env", config.Env, "environment name (local enables debug logs)")
	fs.IntVar(&config.FanoutBatchSize, "fanout-batch", config.FanoutBatchSize, "followers per fan-out insert")
	fs.IntVar(&config.FanoutConcurrency, "fanout-workers", config.FanoutConcurrency, "fan-out inserts in flight")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only flags given explicitly replace the finer-grained values loaded
	// from JSON or the environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		case "kafka":
			config.KafkaBrokers = splitList(*kafka)
		}
	})
	return nil
}
