package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EngineNative   = "native"
	EnginePipeline = "pipeline"
)

type Config struct {
	Port        string
	Environment string

	MongoURI              string
	MongoDB               string
	MongoConnectTimeout   time.Duration
	MongoOperationTimeout time.Duration

	AnalyticsEngine string

	CacheURL string
	CacheTTL time.Duration

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	// EnvFile es el .env cargado, vacío si se usan sólo variables del sistema
	EnvFile string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load lee la configuración: variables de entorno > .env > valores por defecto.
// El .env sólo se carga si existe (en producción no suele haberlo).
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}

	loaded := ""
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		loaded = envFile
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		Environment:           strings.ToLower(v.GetString("ENVIRONMENT")),
		MongoURI:              v.GetString("MONGO_URI"),
		MongoDB:               v.GetString("MONGO_DB"),
		MongoConnectTimeout:   v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		MongoOperationTimeout: v.GetDuration("MONGO_OPERATION_TIMEOUT"),
		AnalyticsEngine:       strings.ToLower(v.GetString("ANALYTICS_ENGINE")),
		CacheURL:              v.GetString("CACHE_URL"),
		CacheTTL:              v.GetDuration("CACHE_TTL"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LogFormat:             v.GetString("LOG_FORMAT"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		EnvFile:               loaded,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "storefront")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("MONGO_OPERATION_TIMEOUT", "5s")
	v.SetDefault("ANALYTICS_ENGINE", EngineNative)
	v.SetDefault("CACHE_URL", "")
	v.SetDefault("CACHE_TTL", "2m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if strings.TrimSpace(c.MongoURI) == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if strings.TrimSpace(c.MongoDB) == "" {
		errs = append(errs, errors.New("MONGO_DB is required"))
	}
	if c.MongoConnectTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_CONNECT_TIMEOUT must be positive"))
	}
	if c.MongoOperationTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_OPERATION_TIMEOUT must be positive"))
	}
	if c.AnalyticsEngine != EngineNative && c.AnalyticsEngine != EnginePipeline {
		errs = append(errs, fmt.Errorf("ANALYTICS_ENGINE must be %q or %q, got %q", EngineNative, EnginePipeline, c.AnalyticsEngine))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
