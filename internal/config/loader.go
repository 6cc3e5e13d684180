package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("forecastd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")                    // Current directory
		v.AddConfigPath("./configs")            // Project configs directory
		v.AddConfigPath("/etc/soltix-forecast") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides, e.g. FORECAST_SERVER_HTTP_PORT
	v.SetEnvPrefix("FORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.grpc_port", d.Server.GRPCPort)
	v.SetDefault("server.grpc_enabled", d.Server.GRPCEnabled)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())

	// Auth defaults
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.credential_store", d.Auth.CredentialStore)
	v.SetDefault("auth.jwt.issuer", d.Auth.JWT.Issuer)
	v.SetDefault("auth.jwt.ttl", d.Auth.JWT.TTL.String())
	v.SetDefault("auth.session.expiration", d.Auth.Session.Expiration.String())
	v.SetDefault("auth.session.cookie_name", d.Auth.Session.CookieName)
	v.SetDefault("auth.session.storage", d.Auth.Session.Storage)
	v.SetDefault("auth.session.key_prefix", d.Auth.Session.KeyPrefix)
	v.SetDefault("auth.session.compress", d.Auth.Session.Compress)

	// Etcd defaults
	v.SetDefault("etcd.endpoints", d.Etcd.Endpoints)
	v.SetDefault("etcd.dial_timeout", d.Etcd.DialTimeout.String())
	v.SetDefault("etcd.key_prefix", d.Etcd.KeyPrefix)
	v.SetDefault("etcd.cache_ttl", d.Etcd.CacheTTL.String())
	v.SetDefault("etcd.cache_size", d.Etcd.CacheSize)

	// Events defaults
	v.SetDefault("events.enabled", d.Events.Enabled)
	v.SetDefault("events.type", d.Events.Type)
	v.SetDefault("events.url", d.Events.URL)
	v.SetDefault("events.subject", d.Events.Subject)

	// CORS defaults
	v.SetDefault("cors.allow_origins", d.CORS.AllowOrigins)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5000,
			GRPCPort:     5001,
			GRPCEnabled:  false,
			BodyLimit:    1024 * 1024,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Enabled:         false,
			CredentialStore: CredentialStoreStatic,
			JWT: JWTConfig{
				Issuer: "soltix-forecast",
				TTL:    time.Hour,
			},
			Session: SessionConfig{
				Expiration: 30 * time.Minute,
				CookieName: "forecast_session",
				Storage:    SessionStorageMemory,
				KeyPrefix:  "forecast:session:",
				Compress:   true,
			},
		},
		Etcd: EtcdConfig{
			Endpoints:   []string{"http://localhost:2379"},
			DialTimeout: 5 * time.Second,
			KeyPrefix:   "/soltix-forecast/users",
			CacheTTL:    30 * time.Second,
			CacheSize:   1024,
		},
		Events: EventsConfig{
			Enabled: false,
			Type:    "nats",
			URL:     "nats://localhost:4222",
			Subject: "forecast.completed",
		},
		CORS: CORSConfig{
			AllowOrigins: "*",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}
