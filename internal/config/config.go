package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ServerPort string `env:"PORT" envDefault:"5000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN  string `env:"SENTRY_DSN"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"user:password@tcp(localhost:3306)/modion?charset=utf8mb4&parseTime=True&loc=Local"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"https://modion.vercel.app,http://localhost:5173"`
	RateLimit   float64  `env:"RATE_LIMIT" envDefault:"10"`

	MediaDriver         string `env:"MEDIA_DRIVER" envDefault:"cloudinary"`
	MediaFolder         string `env:"MEDIA_FOLDER" envDefault:"articles"`
	MaxUploadBytes      int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Endpoint  string `env:"S3_ENDPOINT"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Modion <noreply@modion.app>"`
}

// IsProduction reports whether the service runs in production mode.
// Session cookies are only flagged Secure in production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.MediaDriver {
	case "cloudinary":
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("MEDIA_DRIVER=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("MEDIA_DRIVER=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported MEDIA_DRIVER %q", c.MediaDriver)
	}

	if c.IsProduction() && c.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
