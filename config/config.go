package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type (
	Config struct {
		HTTP      HTTP
		Log       Log
		Auth      Auth
		Upload    Upload
		CORS      CORS
		Metadata  Metadata
		Objects   Objects
		Perimeter Perimeter
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT" envDefault:"8007"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
		RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	}

	// Auth values may be empty: a missing secret or credential is reported per request
	// as a server configuration error, not at startup.
	Auth struct {
		Username     string        `env:"AUTH_USERNAME"`
		Password     string        `env:"AUTH_PASSWORD"`
		PasswordHash string        `env:"AUTH_PASSWORD_HASH"`
		JWTSecret    string        `env:"JWT_SECRET"`
		TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h" validate:"gt=0"`
		CookieName   string        `env:"AUTH_COOKIE_NAME" envDefault:"auth_token" validate:"required"`
		CookieSecure bool          `env:"AUTH_COOKIE_SECURE" envDefault:"true"`
	}

	Upload struct {
		MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"10485760" validate:"gt=0"`
	}

	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	}

	Metadata struct {
		Backend         string `env:"METADATA_BACKEND" envDefault:"badger" validate:"oneof=badger redis mongo"`
		BadgerDir       string `env:"BADGER_DIR" envDefault:"./data/metadata"`
		RedisAddr       string `env:"REDIS_ADDR" validate:"required_if=Backend redis"`
		RedisPassword   string `env:"REDIS_PASSWORD"`
		RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
		MongoURI        string `env:"MONGO_URI" validate:"required_if=Backend mongo"`
		MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"imagestore"`
		MongoCollection string `env:"MONGO_COLLECTION" envDefault:"image_metadata"`
	}

	Objects struct {
		Backend        string        `env:"OBJECT_BACKEND" envDefault:"fs" validate:"oneof=fs s3 minio"`
		FSRoot         string        `env:"FS_ROOT" envDefault:"./data/objects"`
		S3Endpoint     string        `env:"S3_ENDPOINT" validate:"required_if=Backend s3"`
		S3Region       string        `env:"S3_REGION" envDefault:"auto"`
		S3AccessKey    string        `env:"S3_ACCESS_KEY" validate:"required_if=Backend s3"`
		S3SecretKey    string        `env:"S3_SECRET_KEY" validate:"required_if=Backend s3"`
		S3Bucket       string        `env:"S3_BUCKET" validate:"required_if=Backend s3"`
		S3PathStyle    bool          `env:"S3_USE_PATH_STYLE" envDefault:"true"`
		MinioEndpoint  string        `env:"MINIO_ENDPOINT" validate:"required_if=Backend minio"`
		MinioAccessKey string        `env:"MINIO_ACCESS_KEY"`
		MinioSecretKey string        `env:"MINIO_SECRET_KEY"`
		MinioBucket    string        `env:"MINIO_BUCKET" validate:"required_if=Backend minio"`
		MinioUseSSL    bool          `env:"MINIO_USE_SSL" envDefault:"false"`
		ConnectTimeout time.Duration `env:"OBJECT_CONNECT_TIMEOUT" envDefault:"10s"`
	}

	Perimeter struct {
		Enabled          bool     `env:"PERIMETER_ENABLED" envDefault:"false"`
		AllowedCountries []string `env:"PERIMETER_ALLOWED_COUNTRIES" envSeparator:","`
		AllowedReferers  []string `env:"PERIMETER_ALLOWED_REFERERS" envSeparator:","`
		BlockedAgents    []string `env:"PERIMETER_BLOCKED_AGENTS" envSeparator:"," envDefault:"scrapy,python-requests,bot,crawler,spider"`
		MaxRequestSize   int64    `env:"PERIMETER_MAX_REQUEST_SIZE" envDefault:"10485760"`

		// LoginRateLimit caps login attempts per client IP and window; 0 disables it.
		LoginRateLimit  int           `env:"PERIMETER_LOGIN_RATE_LIMIT" envDefault:"0" validate:"gte=0"`
		LoginRateWindow time.Duration `env:"PERIMETER_LOGIN_RATE_WINDOW" envDefault:"1m" validate:"gt=0"`
	}
)

// New reads the process environment. Callers load any .env file beforehand.
func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

// Misconfigured reports whether the single-tenant credentials or signing secret are missing.
func (a Auth) Misconfigured() bool {
	return a.Username == "" || (a.Password == "" && a.PasswordHash == "") || a.JWTSecret == ""
}
