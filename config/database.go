package config

import "time"

// MongoConfig contains document store configuration.
type MongoConfig struct {
	URI      string `env:"URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"kernel-ci"`
	// ConnectTimeout bounds the initial connect and ping.
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

const minConnectTimeout = time.Second

// Sanitize applies guardrails to store configuration.
func (c *MongoConfig) Sanitize() {
	if c.ConnectTimeout < minConnectTimeout {
		c.ConnectTimeout = minConnectTimeout
	}
}

// CacheConfig contains Redis cache configuration.
type CacheConfig struct {
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`

	// JobTTL is the lifetime of cached job documents.
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"15m"`

	// Disabled turns the cache off entirely; reads go straight to the store.
	Disabled bool `env:"DISABLED" envDefault:"false"`
}

const minJobTTL = time.Second

// Sanitize applies guardrails to cache configuration.
func (c *CacheConfig) Sanitize() {
	if c.JobTTL < minJobTTL {
		c.JobTTL = minJobTTL
	}
}
