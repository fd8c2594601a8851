package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pdfvault/internal/pkg/validator"
)

const (
	DriverMinio  = "minio"
	DriverMemory = "memory"

	defaultHTTPAddr     = ":8080"
	defaultReadTimeout  = "30s"
	defaultWriteTimeout = "60s"
	defaultJWTTTL       = "24h"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultLocation     = "./upload-dir"
	defaultCORSOrigins  = "http://localhost:63342"
)

// Config is built once at startup and handed to constructors explicitly.
type Config struct {
	AppEnv   string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	HTTP HTTPConfig `mapstructure:"http"`

	DatabaseURL string        `mapstructure:"database_url" validate:"required"`
	JWTSecret   string        `mapstructure:"jwt_secret" validate:"required"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" validate:"gt=0"`

	ObjectStoreDriver string      `mapstructure:"object_store_driver" validate:"oneof=minio memory"`
	Minio             MinioConfig `mapstructure:"minio"`

	Storage StorageConfig `mapstructure:"storage"`

	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ReconcileInterval  time.Duration `mapstructure:"reconcile_interval" validate:"gte=0"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// MinioConfig keeps the MINIO_* variable names used by existing deployments.
type MinioConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name" validate:"required"`
	Region     string `mapstructure:"region"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// StorageConfig describes the local scratch area downloads are staged in.
type StorageConfig struct {
	Location string `mapstructure:"location" validate:"required"`
}

// Load reads an optional .env file, then the process environment.
// Nested keys map to upper-case variables with dots replaced by underscores
// (minio.bucket_name -> MINIO_BUCKET_NAME).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("http.addr", defaultHTTPAddr)
	v.SetDefault("http.read_timeout", defaultReadTimeout)
	v.SetDefault("http.write_timeout", defaultWriteTimeout)
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_ttl", defaultJWTTTL)
	v.SetDefault("object_store_driver", DriverMinio)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket_name", "")
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("storage.location", defaultLocation)
	v.SetDefault("cors_allowed_origins", defaultCORSOrigins)
	v.SetDefault("reconcile_interval", "0s")
	return v
}

// FromViper decodes and validates a config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.ObjectStoreDriver = strings.ToLower(strings.TrimSpace(cfg.ObjectStoreDriver))
	cfg.Storage.Location = strings.TrimSpace(cfg.Storage.Location)
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s object_store=%s bucket=%s scratch=%s", cfg.AppEnv, cfg.ObjectStoreDriver, cfg.Minio.BucketName, cfg.Storage.Location)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if errs := validator.Validate(cfg); errs != nil {
		return fmt.Errorf("invalid config: %s", validator.Format(errs))
	}

	if cfg.ObjectStoreDriver == DriverMinio {
		if strings.TrimSpace(cfg.Minio.Endpoint) == "" {
			return fmt.Errorf("MINIO_ENDPOINT must not be empty")
		}
		if strings.TrimSpace(cfg.Minio.AccessKey) == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY must not be empty")
		}
		if strings.TrimSpace(cfg.Minio.SecretKey) == "" {
			return fmt.Errorf("MINIO_SECRET_KEY must not be empty")
		}
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.ObjectStoreDriver == DriverMemory {
			return fmt.Errorf("in prod/release OBJECT_STORE_DRIVER=memory is not allowed")
		}
	}

	return nil
}

// IsProdLike reports whether AppEnv names a production deployment
// (prod, production or release).
func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
