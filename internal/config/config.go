package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env    string
	Log    LogConfig
	Server ServerConfig
	S3     S3Config
	Store  StoreConfig
	Redis  RedisConfig
	App    AppConfig
}

type LogConfig struct {
	Level string
}

type ServerConfig struct {
	Host        string
	Port        string
	BasePath    string
	CORSOrigins []string
}

type S3Config struct {
	Driver          string // s3 | memory
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
	SignedURLTTL    time.Duration
}

type StoreConfig struct {
	Driver string // memory | sqlite | pgx | redis
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type AppConfig struct {
	MaxUploadSize   int64
	JPEGQuality     int
	SerializeWrites bool
}

func Load() (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_BASE_PATH", "/api")
	v.SetDefault("SERVER_CORS_ORIGINS", []string{"*"})
	v.SetDefault("STORAGE_DRIVER", "s3")
	v.SetDefault("S3_ENDPOINT", "localhost:9000")
	v.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	v.SetDefault("S3_USE_SSL", false)
	v.SetDefault("S3_BUCKET_NAME", "realestate-images")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_SIGNED_URL_TTL", time.Hour)
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("STORE_DSN", "./data/content.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "realestate")
	v.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("APP_JPEG_QUALITY", 90)
	v.SetDefault("APP_SERIALIZE_WRITES", true)

	v.AutomaticEnv()

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Host:        v.GetString("SERVER_HOST"),
			Port:        v.GetString("SERVER_PORT"),
			BasePath:    v.GetString("SERVER_BASE_PATH"),
			CORSOrigins: splitList(v.GetStringSlice("SERVER_CORS_ORIGINS")),
		},
		S3: S3Config{
			Driver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          v.GetBool("S3_USE_SSL"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
			SignedURLTTL:    v.GetDuration("S3_SIGNED_URL_TTL"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
			DSN:    v.GetString("STORE_DSN"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		App: AppConfig{
			MaxUploadSize:   v.GetInt64("APP_MAX_UPLOAD_SIZE"),
			JPEGQuality:     v.GetInt("APP_JPEG_QUALITY"),
			SerializeWrites: v.GetBool("APP_SERIALIZE_WRITES"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.S3.Driver {
	case "s3", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.S3.Driver)
	}
	switch c.Store.Driver {
	case "memory", "sqlite", "pgx", "redis":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.S3.SignedURLTTL <= 0 {
		return fmt.Errorf("S3_SIGNED_URL_TTL must be positive")
	}
	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		c.Server.BasePath = "/" + c.Server.BasePath
	}
	c.Server.BasePath = strings.TrimSuffix(c.Server.BasePath, "/")
	return nil
}

// splitList accepts both repeated values and a single comma separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
