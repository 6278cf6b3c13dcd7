package config

// Redis backs the geo index, distributed rate limiting and response
// caching.  If the server is unreachable at startup NewRedisClient
// returns nil: the cache and limiter turn into no-ops and geo
// operations fail with repository.ErrGeoIndexUnavailable.

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment:
//
//	REDIS_URL                 – redis:// or rediss:// URL, wins when set
//	REDIS_ADDR                – host:port shorthand
//	REDIS_HOST and REDIS_PORT – override REDIS_ADDR when both set
//	REDIS_PASSWORD, REDIS_DB  – auth and database number
//	REDIS_TLS                 – "true" or "1" enables TLS
func RedisOptions() (*redis.Options, error) {
	if u := os.Getenv("REDIS_URL"); u != "" {
		return redis.ParseURL(u)
	}
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	opt := &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

// NewRedisClient connects and pings with a short timeout.  It returns
// nil when the options are invalid or the ping fails.
func NewRedisClient() *redis.Client {
	opt, err := RedisOptions()
	if err != nil {
		return nil
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
