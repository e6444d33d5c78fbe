package config

import (
	"fmt"
	"strings"
	"time"

	"family-dues-go/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env         string   `envconfig:"ENV" default:"development" validate:"oneof=development test production"`
	HTTPPort    string   `envconfig:"PORT" required:"true" validate:"required,numeric"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	Timezone    string   `envconfig:"TIMEZONE" default:"America/Argentina/Buenos_Aires" validate:"required,timezone"`

	// Sections are read on their own so their variables carry no prefix.
	DB      DBConfig            `ignored:"true"`
	Auth    AuthConfig          `ignored:"true"`
	Monthly MonthlyUpdateConfig `ignored:"true"`
	Stats   StatsConfig         `ignored:"true"`
	Storage StorageConfig       `ignored:"true"`
}

type DBConfig struct {
	DSN             string        `envconfig:"DATABASE_URL" required:"true" validate:"required,url"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10" validate:"gte=1"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5" validate:"gte=0"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type AuthConfig struct {
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true" validate:"required,min=16"`
	TokenTTL       time.Duration `envconfig:"JWT_TTL" default:"24h" validate:"gt=0"`
	PasswordSalt   string        `envconfig:"PASSWORD_SALT" required:"true" validate:"required,min=8"`
	LoginRateLimit int           `envconfig:"RATE_LIMIT_LOGIN" default:"10" validate:"gte=1"`
}

type MonthlyUpdateConfig struct {
	Schedule  string `envconfig:"MONTHLY_UPDATE_SCHEDULE" default:"0 3 1 * *" validate:"required"`
	AutoStart bool   `envconfig:"MONTHLY_UPDATE_AUTOSTART" default:"true"`
}

type StatsConfig struct {
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"STATS_CACHE_TTL" default:"5m"`
}

type StorageConfig struct {
	Bucket       string `envconfig:"S3_BUCKET"`
	Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	Endpoint     string `envconfig:"S3_ENDPOINT"`
	AccessKey    string `envconfig:"S3_ACCESS_KEY" validate:"required_with=Bucket"`
	SecretKey    string `envconfig:"S3_SECRET_KEY" validate:"required_with=Bucket"`
	UsePathStyle bool   `envconfig:"S3_USE_PATH_STYLE" default:"true"`
}

func (c StorageConfig) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the .env file (if any), the process environment, and validates
// the result. Any missing or malformed required value is an error.
func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	var cfg Config
	sections := []any{&cfg, &cfg.DB, &cfg.Auth, &cfg.Monthly, &cfg.Stats, &cfg.Storage}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
