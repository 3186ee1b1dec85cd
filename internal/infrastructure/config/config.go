package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Extraction ExtractionConfig
	Document   DocumentConfig
	Invitation InvitationConfig
	Forge      ForgeConfig
	Cache      CacheConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Scheduler  SchedulerConfig
	Swagger    SwaggerConfig
	Telemetry  TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name      string
	Env       string
	Port      string
	PublicURL string // Base URL of the web app, used to build invitation links
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string // Full connection URL; overrides the discrete fields when set
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// AuthConfig holds settings for verifying sessions issued by the auth provider
type AuthConfig struct {
	// JWTSecret verifies HS256 session tokens
	JWTSecret string
	// PublicKeyPEM verifies RS256 session tokens; takes precedence over JWTSecret
	PublicKeyPEM string
	Issuer       string
	Audience     string
	CookieName   string
	ClockSkew    time.Duration
	// ForgeAdminRole is the role claim value that grants access to /forge
	ForgeAdminRole string
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Driver          string // s3 or memory
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
	CreateBucket    bool
}

// ExtractionConfig holds settings for the AI document extraction API
type ExtractionConfig struct {
	Provider       string // anthropic or stub
	BaseURL        string
	APIKey         string
	Model          string
	APIVersion     string
	MaxTokens      int
	Timeout        time.Duration
	MaxResponseLen int64
}

// DocumentConfig holds document upload and processing settings
type DocumentConfig struct {
	MaxUploadSize     int64
	ProcessingTimeout time.Duration
	StaleAfter        time.Duration
}

// InvitationConfig holds invitation token settings
type InvitationConfig struct {
	DefaultTTL time.Duration
	MinTTL     time.Duration
	MaxTTL     time.Duration
}

// ForgeConfig holds internal admin settings
type ForgeConfig struct {
	DefaultMonthlyTokenLimit int64
	DefaultAlertThreshold    int
	TicketKeyPrefix          string
}

// CacheConfig holds read-model cache settings
type CacheConfig struct {
	DashboardTTL time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	ShutdownTimeout         time.Duration
	MaxHeaderBytes          int
	MaxBodySize             int64
	RateLimitEnabled        bool
	RateLimitRequests       int
	RateLimitWindow         time.Duration
	InviteRateLimitRequests int
	InviteRateLimitWindow   time.Duration
	CORSAllowOrigins        []string
	CORSAllowMethods        []string
	CORSAllowHeaders        []string
	TrustedProxies          []string
}

// SchedulerConfig holds background sweeper configuration
type SchedulerConfig struct {
	Enabled                bool
	InvitationExpiryPeriod time.Duration
	StaleDocumentPeriod    time.Duration
	JobTimeout             time.Duration
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry tracing
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	LogsLevel         string
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
	ProfilingEnabled  bool
	PyroscopeURL      string
}

// Load loads configuration from an optional .env file, config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with KEYSTONE_ prefix (e.g., KEYSTONE_DATABASE_PASSWORD)
// 2. Well-known unprefixed variables (DATABASE_URL, REDIS_URL, ...)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	// .env is optional; existing environment variables are never overwritten
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/keystone")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("KEYSTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindWellKnownEnv(v)

	cfg := &Config{
		App: AppConfig{
			Name:      v.GetString("app.name"),
			Env:       v.GetString("app.env"),
			Port:      v.GetString("app.port"),
			PublicURL: v.GetString("app.public_url"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("redis.url"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Enabled:  v.GetBool("redis.enabled"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("auth.jwt_secret"),
			PublicKeyPEM:   v.GetString("auth.public_key_pem"),
			Issuer:         v.GetString("auth.issuer"),
			Audience:       v.GetString("auth.audience"),
			CookieName:     v.GetString("auth.cookie_name"),
			ClockSkew:      v.GetDuration("auth.clock_skew"),
			ForgeAdminRole: v.GetString("auth.forge_admin_role"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("storage.driver"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
			CreateBucket:    v.GetBool("storage.create_bucket"),
		},
		Extraction: ExtractionConfig{
			Provider:       v.GetString("extraction.provider"),
			BaseURL:        v.GetString("extraction.base_url"),
			APIKey:         v.GetString("extraction.api_key"),
			Model:          v.GetString("extraction.model"),
			APIVersion:     v.GetString("extraction.api_version"),
			MaxTokens:      v.GetInt("extraction.max_tokens"),
			Timeout:        v.GetDuration("extraction.timeout"),
			MaxResponseLen: v.GetInt64("extraction.max_response_len"),
		},
		Document: DocumentConfig{
			MaxUploadSize:     v.GetInt64("document.max_upload_size"),
			ProcessingTimeout: v.GetDuration("document.processing_timeout"),
			StaleAfter:        v.GetDuration("document.stale_after"),
		},
		Invitation: InvitationConfig{
			DefaultTTL: v.GetDuration("invitation.default_ttl"),
			MinTTL:     v.GetDuration("invitation.min_ttl"),
			MaxTTL:     v.GetDuration("invitation.max_ttl"),
		},
		Forge: ForgeConfig{
			DefaultMonthlyTokenLimit: v.GetInt64("forge.default_monthly_token_limit"),
			DefaultAlertThreshold:    v.GetInt("forge.default_alert_threshold"),
			TicketKeyPrefix:          v.GetString("forge.ticket_key_prefix"),
		},
		Cache: CacheConfig{
			DashboardTTL: v.GetDuration("cache.dashboard_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:             v.GetDuration("http.read_timeout"),
			WriteTimeout:            v.GetDuration("http.write_timeout"),
			IdleTimeout:             v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:         v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:          v.GetInt("http.max_header_bytes"),
			MaxBodySize:             v.GetInt64("http.max_body_size"),
			RateLimitEnabled:        v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:       v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:         v.GetDuration("http.rate_limit_window"),
			InviteRateLimitRequests: v.GetInt("http.invite_rate_limit_requests"),
			InviteRateLimitWindow:   v.GetDuration("http.invite_rate_limit_window"),
			CORSAllowOrigins:        v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:        v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:        v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:          v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:                v.GetBool("scheduler.enabled"),
			InvitationExpiryPeriod: v.GetDuration("scheduler.invitation_expiry_period"),
			StaleDocumentPeriod:    v.GetDuration("scheduler.stale_document_period"),
			JobTimeout:             v.GetDuration("scheduler.job_timeout"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			LogsLevel:         v.GetString("telemetry.logs_level"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeURL:      v.GetString("telemetry.pyroscope_url"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// bindWellKnownEnv maps conventional unprefixed variables onto config keys
func bindWellKnownEnv(v *viper.Viper) {
	bindings := map[string][]string{
		"database.url":                 {"KEYSTONE_DATABASE_URL", "DATABASE_URL"},
		"redis.url":                    {"KEYSTONE_REDIS_URL", "REDIS_URL"},
		"auth.jwt_secret":              {"KEYSTONE_AUTH_JWT_SECRET", "AUTH_JWT_SECRET"},
		"auth.public_key_pem":          {"KEYSTONE_AUTH_PUBLIC_KEY_PEM", "AUTH_JWKS_PUBLIC_KEY"},
		"storage.access_key_id":        {"KEYSTONE_STORAGE_ACCESS_KEY_ID", "S3_ACCESS_KEY"},
		"storage.secret_access_key":    {"KEYSTONE_STORAGE_SECRET_ACCESS_KEY", "S3_SECRET_KEY"},
		"extraction.api_key":           {"KEYSTONE_EXTRACTION_API_KEY", "EXTRACTION_API_KEY"},
		"telemetry.collector_endpoint": {"KEYSTONE_TELEMETRY_COLLECTOR_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"},
	}
	for key, envs := range bindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "keystone-api"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.PublicURL == "" {
		cfg.App.PublicURL = "http://localhost:3000"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "keystone"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.URL != "" {
		cfg.Redis.Enabled = true
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "__session"
	}
	if cfg.Auth.ClockSkew == 0 {
		cfg.Auth.ClockSkew = 5 * time.Second
	}
	if cfg.Auth.ForgeAdminRole == "" {
		cfg.Auth.ForgeAdminRole = "forge_admin"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "s3"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "keystone-documents"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}
	if cfg.Extraction.Provider == "" {
		if cfg.Extraction.APIKey != "" {
			cfg.Extraction.Provider = "anthropic"
		} else {
			cfg.Extraction.Provider = "stub"
		}
	}
	if cfg.Extraction.BaseURL == "" {
		cfg.Extraction.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Extraction.Model == "" {
		cfg.Extraction.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Extraction.APIVersion == "" {
		cfg.Extraction.APIVersion = "2023-06-01"
	}
	if cfg.Extraction.MaxTokens == 0 {
		cfg.Extraction.MaxTokens = 2048
	}
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 90 * time.Second
	}
	if cfg.Extraction.MaxResponseLen == 0 {
		cfg.Extraction.MaxResponseLen = 4 << 20 // 4MB
	}
	if cfg.Document.MaxUploadSize == 0 {
		cfg.Document.MaxUploadSize = 25 << 20 // 25MB
	}
	if cfg.Document.ProcessingTimeout == 0 {
		cfg.Document.ProcessingTimeout = 5 * time.Minute
	}
	if cfg.Document.StaleAfter == 0 {
		cfg.Document.StaleAfter = 30 * time.Minute
	}
	if cfg.Invitation.DefaultTTL == 0 {
		cfg.Invitation.DefaultTTL = 7 * 24 * time.Hour
	}
	if cfg.Invitation.MinTTL == 0 {
		cfg.Invitation.MinTTL = time.Hour
	}
	if cfg.Invitation.MaxTTL == 0 {
		cfg.Invitation.MaxTTL = 30 * 24 * time.Hour
	}
	if cfg.Forge.DefaultMonthlyTokenLimit == 0 {
		cfg.Forge.DefaultMonthlyTokenLimit = 50_000_000
	}
	if cfg.Forge.DefaultAlertThreshold == 0 {
		cfg.Forge.DefaultAlertThreshold = 80
	}
	if cfg.Forge.TicketKeyPrefix == "" {
		cfg.Forge.TicketKeyPrefix = "FRG"
	}
	if cfg.Cache.DashboardTTL == 0 {
		cfg.Cache.DashboardTTL = 5 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB; uploads are limited by document.max_upload_size
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 300
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.InviteRateLimitRequests == 0 {
		cfg.HTTP.InviteRateLimitRequests = 10
	}
	if cfg.HTTP.InviteRateLimitWindow == 0 {
		cfg.HTTP.InviteRateLimitWindow = time.Minute
	}
	// No wildcard default for CORS origins; they must be configured explicitly.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Portfolio-ID"}
	}
	if cfg.Scheduler.InvitationExpiryPeriod == 0 {
		cfg.Scheduler.InvitationExpiryPeriod = 15 * time.Minute
	}
	if cfg.Scheduler.StaleDocumentPeriod == 0 {
		cfg.Scheduler.StaleDocumentPeriod = 10 * time.Minute
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 2 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.LogsLevel == "" {
		cfg.Telemetry.LogsLevel = "info"
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.PyroscopeURL == "" {
		cfg.Telemetry.PyroscopeURL = "http://localhost:4040"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Storage.Driver != "s3" && c.Storage.Driver != "memory" {
		return fmt.Errorf("storage.driver must be 's3' or 'memory', got %q", c.Storage.Driver)
	}
	if c.Extraction.Provider != "anthropic" && c.Extraction.Provider != "stub" {
		return fmt.Errorf("extraction.provider must be 'anthropic' or 'stub', got %q", c.Extraction.Provider)
	}
	if c.Extraction.Provider == "anthropic" && c.Extraction.APIKey == "" {
		return fmt.Errorf("extraction.api_key is required when extraction.provider is 'anthropic'")
	}
	if c.Invitation.MinTTL > c.Invitation.MaxTTL {
		return fmt.Errorf("invitation.min_ttl (%s) cannot exceed invitation.max_ttl (%s)",
			c.Invitation.MinTTL, c.Invitation.MaxTTL)
	}
	if c.Invitation.DefaultTTL < c.Invitation.MinTTL || c.Invitation.DefaultTTL > c.Invitation.MaxTTL {
		return fmt.Errorf("invitation.default_ttl must be between min_ttl and max_ttl")
	}
	if c.Forge.DefaultAlertThreshold < 1 || c.Forge.DefaultAlertThreshold > 100 {
		return fmt.Errorf("forge.default_alert_threshold must be between 1 and 100")
	}

	if c.App.Env == "production" {
		if c.Auth.PublicKeyPEM == "" {
			if c.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret or auth.public_key_pem is required in production")
			}
			if len(c.Auth.JWTSecret) < 32 {
				return fmt.Errorf("auth.jwt_secret must be at least 32 characters in production")
			}
		}
		if c.Database.URL == "" {
			if c.Database.Password == "" {
				return fmt.Errorf("database.password is required in production")
			}
			if c.Database.SSLMode == "disable" {
				return fmt.Errorf("database.sslmode cannot be 'disable' in production")
			}
		}
		if c.Storage.Driver == "memory" {
			return fmt.Errorf("storage.driver=memory is not allowed in production")
		}
		if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("storage credentials are required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled or IP restricted in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	} else if c.Auth.JWTSecret == "" && c.Auth.PublicKeyPEM == "" {
		return fmt.Errorf("auth.jwt_secret or auth.public_key_pem is required")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port address for Redis
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
