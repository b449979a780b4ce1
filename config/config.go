// Package config defines the application configuration, loaded from
// environment variables with github.com/caarlos0/env.
package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// See individual domain config files for the available environment
// variables:
//   - database.go: document store and cache configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging).
	IsDev bool `env:"DEV" envDefault:"false"`

	// Mongo is the document store configuration.
	Mongo MongoConfig `envPrefix:"MONGO_"`

	// Cache is the Redis cache configuration.
	Cache CacheConfig `envPrefix:"CACHE_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment
// variables.
func (c *AppConfig) Sanitize() {
	c.Mongo.Sanitize()
	c.Cache.Sanitize()
}
