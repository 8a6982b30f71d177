package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Log          LogConfig          `yaml:"log"`
	SRS          SRSConfig          `yaml:"srs"`
	Progress     ProgressConfig     `yaml:"progress"`
	Gamification GamificationConfig `yaml:"gamification"`
	CORS         CORSConfig         `yaml:"cors"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token-issue settings. The server is the sole authority
// for user identity and the admin flag; clients never supply them.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"lexivon"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"12"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds spaced-repetition scheduling parameters.
type SRSConfig struct {
	DefaultEaseFactor float64       `yaml:"default_ease_factor" env:"SRS_DEFAULT_EASE"       env-default:"2.5"`
	MinEaseFactor     float64       `yaml:"min_ease_factor"     env:"SRS_MIN_EASE"           env-default:"1.3"`
	MaxIntervalDays   int           `yaml:"max_interval_days"   env:"SRS_MAX_INTERVAL"       env-default:"365"`
	FirstReviewDelay  time.Duration `yaml:"first_review_delay"  env:"SRS_FIRST_REVIEW_DELAY" env-default:"4h"`
	DueLimitDefault   int           `yaml:"due_limit_default"   env:"SRS_DUE_LIMIT_DEFAULT"  env-default:"10"`
	DueLimitMax       int           `yaml:"due_limit_max"       env:"SRS_DUE_LIMIT_MAX"      env-default:"100"`
}

// ProgressConfig holds progress/unlock thresholds.
type ProgressConfig struct {
	// DefaultRequiredScore applies when a catalog row carries no explicit
	// required score (percentage, inclusive threshold).
	DefaultRequiredScore int `yaml:"default_required_score" env:"PROGRESS_DEFAULT_REQUIRED_SCORE" env-default:"80"`
}

// GamificationConfig holds streak and daily challenge settings.
type GamificationConfig struct {
	ChallengeRolloverEnabled bool   `yaml:"challenge_rollover_enabled" env:"GAMIFICATION_CHALLENGE_ROLLOVER" env-default:"true"`
	ChallengeRolloverCron    string `yaml:"challenge_rollover_cron"    env:"GAMIFICATION_CHALLENGE_CRON"     env-default:"0 0 * * *"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,Idempotency-Key"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_PER_MINUTE"       env-default:"300"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}
