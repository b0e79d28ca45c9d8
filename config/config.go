package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Shop     ShopConfig
	OTP      OTPConfig
	S3       S3Config
	Schedule ScheduleConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// APIConfig points the gateway at the remote bookstore REST API.
type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	DefaultLanguage string
}

// StorageConfig selects where persisted client keys (token, user, theme, language) live.
type StorageConfig struct {
	Driver string // database, redis
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ShopConfig struct {
	FilterDebounce time.Duration
}

type OTPConfig struct {
	Length         int
	ResendCooldown time.Duration
}

// S3Config enables archiving order exports. An empty Bucket disables it.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // S3-compatible endpoint, path-style when set
	LinkExpiry      time.Duration
}

type ScheduleConfig struct {
	CartSync string // cron spec, "off" disables
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		API: APIConfig{
			BaseURL:         strings.TrimRight(getEnv("STORE_API_BASE_URL", "http://localhost:8000/api"), "/"),
			Timeout:         parseDuration(getEnv("STORE_API_TIMEOUT", "30s"), 30*time.Second),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "database"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "storefront"),
			Password: getEnv("DB_PASSWORD", "storefront"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Shop: ShopConfig{
			FilterDebounce: parseDuration(getEnv("SHOP_FILTER_DEBOUNCE", "350ms"), 350*time.Millisecond),
		},
		OTP: OTPConfig{
			Length:         parseInt(getEnv("OTP_LENGTH", "6"), 6),
			ResendCooldown: parseDuration(getEnv("OTP_RESEND_COOLDOWN", "60s"), 60*time.Second),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_EXPORT_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
			LinkExpiry:      parseDuration(getEnv("AWS_S3_LINK_EXPIRY", "15m"), 15*time.Minute),
		},
		Schedule: ScheduleConfig{
			CartSync: getEnv("CART_SYNC_SCHEDULE", "off"),
		},
	}

	if config.Storage.Driver != "database" && config.Storage.Driver != "redis" {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", config.Storage.Driver)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
