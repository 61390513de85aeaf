package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Admin     AdminConfig
	Store     StoreConfig
	SQLite    SQLiteConfig
	LibSQL    LibSQLConfig
	MongoDB   MongoDBConfig
	CSV       CSVConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AdminConfig struct {
	// Password is the shared secret expected in the x-admin-password header.
	Password string
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendLibSQL = "libsql"
	BackendMongo  = "mongo"
	BackendCSV    = "csv"
)

type StoreConfig struct {
	Backend string
}

type SQLiteConfig struct {
	Path string
}

type LibSQLConfig struct {
	URL       string
	AuthToken string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// CSV file sources.
const (
	CSVSourceDir   = "dir"
	CSVSourceMinIO = "minio"
)

type CSVConfig struct {
	Source string
	Dir    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("STORE_BACKEND", BackendSQLite)
	v.SetDefault("SQLITE_PATH", "questions.db")
	v.SetDefault("MONGODB_DATABASE", "questionbank")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("CSV_SOURCE", CSVSourceDir)
	v.SetDefault("CSV_DIR", "public/CSVfiles")
	v.SetDefault("MINIO_BUCKET", "questionbank")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Admin: AdminConfig{
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		},
		SQLite: SQLiteConfig{
			Path: v.GetString("SQLITE_PATH"),
		},
		LibSQL: LibSQLConfig{
			URL:       v.GetString("DATABASE_URL"),
			AuthToken: v.GetString("DATABASE_AUTH_TOKEN"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		CSV: CSVConfig{
			Source: strings.ToLower(strings.TrimSpace(v.GetString("CSV_SOURCE"))),
			Dir:    v.GetString("CSV_DIR"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has the settings it needs.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendLibSQL:
		if c.LibSQL.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the libsql backend")
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo backend")
		}
	case BackendCSV:
		switch c.CSV.Source {
		case CSVSourceDir:
			if c.CSV.Dir == "" {
				return fmt.Errorf("CSV_DIR is required for the csv backend")
			}
		case CSVSourceMinIO:
			if c.MinIO.Endpoint == "" {
				return fmt.Errorf("MINIO_ENDPOINT is required when CSV_SOURCE=minio")
			}
		default:
			return fmt.Errorf("unknown CSV_SOURCE %q", c.CSV.Source)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.RateLimit.Enabled && c.RateLimit.UseRedis && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when RATE_LIMIT_USE_REDIS is set")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
