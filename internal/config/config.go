package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Logger LoggerConfig
}

// AppConfig holds configuration for the HTTP server
type AppConfig struct {
	Env                    string   `env:"APP_ENV"`
	Port                   string   `env:"PORT" validate:"required,port"`
	TrustedProxies         []string `env:"TRUSTED_PROXIES"`
	CORSAllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" validate:"min=1"`
	MaxBodyBytes           int64    `env:"MAX_BODY_BYTES" validate:"gt=0"`
	ShutdownTimeoutSeconds int      `env:"SHUTDOWN_TIMEOUT_SECONDS" validate:"gt=0"`
	UsersListLimit         int64    `env:"USERS_LIST_LIMIT" validate:"gt=0"`
}

// MongoConfig holds configuration for the document store
type MongoConfig struct {
	URI                           string `env:"MONGODB_URI" validate:"required"`
	Database                      string `env:"MONGODB_DATABASE" validate:"required"`
	ServerSelectionTimeoutSeconds int    `env:"MONGODB_SERVER_SELECTION_TIMEOUT_SECONDS" validate:"gt=0"`
	ConnectRetries                int    `env:"MONGODB_CONNECT_RETRIES" validate:"gte=0"`
	ConnectBackoffMS              int    `env:"MONGODB_CONNECT_BACKOFF_MS" validate:"gt=0"`
}

// RedisConfig holds configuration for the optional list cache.
// An empty Addr disables caching.
type RedisConfig struct {
	Addr            string `env:"REDIS_ADDR"`
	Password        string `env:"REDIS_PASSWORD"`
	DB              int    `env:"REDIS_DB" validate:"gte=0"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" validate:"gte=0"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" validate:"gt=0"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `env:"LOG_LEVEL"`
	Format           string  `env:"LOG_FORMAT" validate:"oneof=json console"`
	OutputPath       string  `env:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `env:"LOG_SLOW_QUERY_SECONDS" validate:"gte=0"`
	EnableSampling   bool    `env:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `env:"SERVICE_NAME"`
	ServiceVersion   string  `env:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file found in path. Variables already present in the process
// environment win over the file. The result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	envFile := filepath.Join(path, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.Port = v.GetString("PORT")
	config.App.TrustedProxies = splitList(v.GetString("TRUSTED_PROXIES"))
	config.App.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	config.App.MaxBodyBytes = v.GetInt64("MAX_BODY_BYTES")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	config.App.UsersListLimit = v.GetInt64("USERS_LIST_LIMIT")

	config.Mongo.URI = v.GetString("MONGODB_URI")
	config.Mongo.Database = v.GetString("MONGODB_DATABASE")
	config.Mongo.ServerSelectionTimeoutSeconds = v.GetInt("MONGODB_SERVER_SELECTION_TIMEOUT_SECONDS")
	config.Mongo.ConnectRetries = v.GetInt("MONGODB_CONNECT_RETRIES")
	config.Mongo.ConnectBackoffMS = v.GetInt("MONGODB_CONNECT_BACKOFF_MS")

	config.Redis.Addr = v.GetString("REDIS_ADDR")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.CacheTTLSeconds = v.GetInt("CACHE_TTL_SECONDS")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("USERS_LIST_LIMIT", 5)

	v.SetDefault("MONGODB_DATABASE", "dummy")
	v.SetDefault("MONGODB_SERVER_SELECTION_TIMEOUT_SECONDS", 5)
	v.SetDefault("MONGODB_CONNECT_RETRIES", 3)
	v.SetDefault("MONGODB_CONNECT_BACKOFF_MS", 500)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("CACHE_TTL_SECONDS", 30)

	// Logger defaults
	if os.Getenv("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "users-rest-api")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks every setting individually and reports each failing
// variable by its environment name.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	_ = validate.RegisterValidation("port", validatePort)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "port":
			messages = append(messages, fmt.Sprintf("%s must be an integer between 0 and 65535", e.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "gt", "gte", "min":
			messages = append(messages, fmt.Sprintf("%s must be %s %s", e.Field(), comparison(e.Tag()), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(messages, ", "))
}

// validatePort accepts decimal TCP port numbers; 0 asks the OS for a free port.
func validatePort(fl validator.FieldLevel) bool {
	_, err := strconv.ParseUint(fl.Field().String(), 10, 16)
	return err == nil
}

func comparison(tag string) string {
	switch tag {
	case "gt":
		return "greater than"
	case "min":
		return "at least length"
	default:
		return "at least"
	}
}

// Addr returns the listen address for the HTTP server
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

// ShutdownTimeout returns the graceful shutdown budget
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// ServerSelectionTimeout returns how long the driver waits for a usable server
func (c *MongoConfig) ServerSelectionTimeout() time.Duration {
	return time.Duration(c.ServerSelectionTimeoutSeconds) * time.Second
}

// ConnectBackoff returns the base delay between connection attempts
func (c *MongoConfig) ConnectBackoff() time.Duration {
	return time.Duration(c.ConnectBackoffMS) * time.Millisecond
}

// CacheEnabled reports whether the Redis list cache is configured
func (c *RedisConfig) CacheEnabled() bool {
	return c.Addr != ""
}

// CacheTTL returns the lifetime of cached list results
func (c *RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
