package config

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DefaultTenantID is used for public requests without an X-Tenant-ID
	// header, mirroring single-tenant deployments.
	DefaultTenantID string `env:"DEFAULT_TENANT_ID, default=3e802e65-916e-4f2c-8068-abdd3b93dc2c"`

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Publisher PublisherConfig
	Throttle  ThrottleConfig
	Seed      SeedConfig
}

// SeedConfig controls the bootstrap admin account. With an empty password
// only the default roles are seeded.
type SeedConfig struct {
	AdminUsername string `env:"SEED_ADMIN_USERNAME, default=admin"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,    default=admin@localhost"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// JWTConfig holds token signing settings. The secret has no default: the
// service refuses to start without one.
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET, required"`
	Issuer         string `env:"JWT_ISSUER,   default=identity-service"`
	Audience       string `env:"JWT_AUDIENCE, default=identity-service.api"`
	ExpiresInHours int    `env:"JWT_EXPIRES_IN_HOURS, default=24"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type PublisherConfig struct {
	Workers int    `env:"PUBLISHER_WORKERS, default=4"`
	Buffer  int    `env:"PUBLISHER_BUFFER,  default=256"`
	Stream  string `env:"PUBLISHER_STREAM,  default=identity.events"`
}

type ThrottleConfig struct {
	MaxFailures int64         `env:"LOGIN_THROTTLE_MAX_FAILURES, default=10"`
	Window      time.Duration `env:"LOGIN_THROTTLE_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
// A missing required variable (notably JWT_SECRET) is a startup failure.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := uuid.Parse(cfg.DefaultTenantID); err != nil {
		return nil, fmt.Errorf("config: DEFAULT_TENANT_ID: %w", err)
	}
	return &cfg, nil
}

// DefaultTenant returns the parsed default tenant id. Load has already
// validated it.
func (c *Config) DefaultTenant() uuid.UUID {
	return uuid.MustParse(c.DefaultTenantID)
}
