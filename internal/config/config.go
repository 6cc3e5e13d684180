package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Etcd    EtcdConfig    `mapstructure:"etcd"`
	Events  EventsConfig  `mapstructure:"events"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"`     // HTTP server port
	GRPCPort     int           `mapstructure:"grpc_port"`     // gRPC server port
	GRPCEnabled  bool          `mapstructure:"grpc_enabled"`  // Serve the gRPC forecast service
	BodyLimit    int           `mapstructure:"body_limit"`    // Max request body in bytes
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // HTTP read timeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // HTTP write timeout
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled         bool          `mapstructure:"enabled"`          // Gate forecast endpoints behind a login
	CredentialStore string        `mapstructure:"credential_store"` // static or etcd
	Users           []UserConfig  `mapstructure:"users"`            // Credentials for the static store
	APIKeys         []string      `mapstructure:"api_keys"`         // Keys accepted in place of a session
	JWT             JWTConfig     `mapstructure:"jwt"`
	Session         SessionConfig `mapstructure:"session"`
}

// UserConfig is a single credential pair. PasswordHash (bcrypt) wins over Password.
type UserConfig struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

// JWTConfig configures bearer tokens issued by /v1/auth/token
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// SessionConfig configures cookie sessions for the login form
type SessionConfig struct {
	Expiration    time.Duration `mapstructure:"expiration"`     // Idle lifetime, renewed on each authenticated request
	CookieName    string        `mapstructure:"cookie_name"`    // Cookie carrying the session id
	CookieSecure  bool          `mapstructure:"cookie_secure"`  // Only send the cookie over HTTPS
	Storage       string        `mapstructure:"storage"`        // memory or redis
	RedisURL      string        `mapstructure:"redis_url"`      // Redis URL when storage is redis
	RedisPassword string        `mapstructure:"redis_password"` // Optional Redis password
	RedisDB       int           `mapstructure:"redis_db"`       // Redis database number
	KeyPrefix     string        `mapstructure:"key_prefix"`     // Prefix for session keys in Redis
	Compress      bool          `mapstructure:"compress"`       // Snappy-compress stored session data
}

// EtcdConfig represents etcd configuration for the etcd credential store
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	KeyPrefix   string        `mapstructure:"key_prefix"` // Prefix under which user hashes live
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`  // How long fetched hashes are cached
	CacheSize   int           `mapstructure:"cache_size"` // Max cached users
}

// EventsConfig represents forecast event publishing configuration
type EventsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`  // Publish an event after each forecast
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Subject  string `mapstructure:"subject"`  // Subject/topic for forecast events
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "forecast")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "forecast-tail")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// CORSConfig represents cross-origin configuration
type CORSConfig struct {
	AllowOrigins string `mapstructure:"allow_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`        // debug, info, warn, error
	Format     string `mapstructure:"format"`       // json, console
	OutputPath string `mapstructure:"output_path"`  // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"`  // RFC3339, Unix, Kitchen
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // Rotate file output after this size
	MaxBackups int    `mapstructure:"max_backups"`  // Rotated files to keep
	MaxAgeDays int    `mapstructure:"max_age_days"` // Days to keep rotated files
	Compress   bool   `mapstructure:"compress"`     // Gzip rotated files
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if c.Auth.Enabled && c.Auth.CredentialStore == CredentialStoreEtcd {
		if err := c.Etcd.Validate(); err != nil {
			return fmt.Errorf("etcd config: %w", err)
		}
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.GRPCEnabled {
		if c.GRPCPort < 1 || c.GRPCPort > 65535 {
			return fmt.Errorf("invalid grpc_port: %d", c.GRPCPort)
		}
		if c.HTTPPort == c.GRPCPort {
			return fmt.Errorf("http_port and grpc_port cannot be the same")
		}
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Credential store names
const (
	CredentialStoreStatic = "static"
	CredentialStoreEtcd   = "etcd"
)

// Session storage names
const (
	SessionStorageMemory = "memory"
	SessionStorageRedis  = "redis"
)

// Validate validates auth configuration
func (c *AuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.CredentialStore {
	case CredentialStoreStatic:
		if len(c.Users) == 0 && len(c.APIKeys) == 0 {
			return fmt.Errorf("auth.users or auth.api_keys is required with the static credential store")
		}
		for i, u := range c.Users {
			if u.Username == "" {
				return fmt.Errorf("auth.users[%d].username is required", i)
			}
			if u.Password == "" && u.PasswordHash == "" {
				return fmt.Errorf("auth.users[%d] needs password or password_hash", i)
			}
		}
	case CredentialStoreEtcd:
	default:
		return fmt.Errorf("auth.credential_store must be 'static' or 'etcd'")
	}

	if c.Session.Expiration <= 0 {
		return fmt.Errorf("auth.session.expiration must be positive")
	}

	switch c.Session.Storage {
	case SessionStorageMemory:
	case SessionStorageRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("auth.session.redis_url is required with redis storage")
		}
	default:
		return fmt.Errorf("auth.session.storage must be 'memory' or 'redis'")
	}

	if c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("auth.jwt.secret must be at least 32 characters")
	}

	if c.JWT.Secret != "" && c.JWT.TTL <= 0 {
		return fmt.Errorf("auth.jwt.ttl must be positive")
	}

	return nil
}

// Validate validates etcd configuration
func (c *EtcdConfig) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("etcd.endpoints is required")
	}

	if c.DialTimeout <= 0 {
		return fmt.Errorf("etcd.dial_timeout must be positive")
	}

	if c.KeyPrefix == "" {
		return fmt.Errorf("etcd.key_prefix is required")
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Subject == "" {
		return fmt.Errorf("events.subject is required")
	}

	switch c.Type {
	case "", "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("events.url is required for %q queue", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("events.kafka_brokers is required for kafka queue")
		}
	case "memory":
	default:
		return fmt.Errorf("events.type must be one of: nats, redis, kafka, memory")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
