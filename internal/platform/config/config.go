package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the governance service.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	Redis         RedisConfig
	// OverviewCacheTTL bounds staleness of the cached governance overview
	// report. Zero disables caching.
	OverviewCacheTTL time.Duration
}

// RedisConfig carries connection settings for the optional Redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("GAVEL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cacheTTL := 30 * time.Second
	if raw := os.Getenv("GAVEL_OVERVIEW_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cacheTTL = parsed
		}
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSigningKey:    jwtSigningKey,
		Redis:            redisFromEnv(),
		OverviewCacheTTL: cacheTTL,
	}
}

func redisFromEnv() RedisConfig {
	cfg := RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if raw := os.Getenv("REDIS_POOL_SIZE"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			cfg.PoolSize = size
		}
	}
	return cfg
}
