package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	UploadDriverLocal = "local"
	UploadDriverMinIO = "minio"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
	Migrations string
}

type MinIO struct {
	Endpoint   string
	PublicHost string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Upload struct {
	Driver             string
	Dir                string
	PublicBaseURL      string
	MaxThumbnailSize   int64
	MaxAvatarSize      int64
	MultipartMaxMemory int64
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type Log struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Config struct {
	ServerPort          int
	DB                  DB
	MinIO               MinIO
	Upload              Upload
	Redis               Redis
	Log                 Log
	JWTSecretKey        string
	AccessTokenDuration time.Duration
	RateLimitPerMinute  int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseDuration falls back when the value is not a valid time.Duration.
func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "blogsphere"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
		Migrations: getEnv("DB_MIGRATIONS", "migrations/001_create_tables.sql"),
	}
}

func LoadMinIO() MinIO {
	endpoint := getEnv("MINIO_ENDPOINT", "localhost:9000")
	return MinIO{
		Endpoint:   endpoint,
		PublicHost: getEnv("MINIO_PUBLIC_HOST", endpoint),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
	}
}

func LoadUpload() Upload {
	return Upload{
		Driver:             strings.ToLower(getEnv("UPLOAD_DRIVER", UploadDriverLocal)),
		Dir:                getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:      strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", ""), "/"),
		MaxThumbnailSize:   getEnvAsInt64("MAX_THUMBNAIL_SIZE", 2_000_000),
		MaxAvatarSize:      getEnvAsInt64("MAX_AVATAR_SIZE", 5_000_000),
		MultipartMaxMemory: getEnvAsInt64("MULTIPART_MAX_MEMORY", 8<<20),
	}
}

func LoadRedis() Redis {
	return Redis{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL: parseDuration(getEnv("CACHE_TTL", "1h"), time.Hour),
	}
}

func LoadLog() Log {
	return Log{
		Level:      getEnv("LOG_LEVEL", "info"),
		Path:       getEnv("LOG_PATH", ""),
		MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
		Compress:   getEnvBool("LOG_COMPRESS", false),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:          getEnvAsInt("SERVER_PORT", 8080),
		DB:                  LoadDB(),
		MinIO:               LoadMinIO(),
		Upload:              LoadUpload(),
		Redis:               LoadRedis(),
		Log:                 LoadLog(),
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "48h"), 48*time.Hour),
		RateLimitPerMinute:  getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
		ReadTimeout:         parseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"), 30*time.Second),
		WriteTimeout:        parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "60s"), 60*time.Second),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}

	switch c.Upload.Driver {
	case UploadDriverLocal, UploadDriverMinIO:
	default:
		return fmt.Errorf("unknown UPLOAD_DRIVER %q", c.Upload.Driver)
	}

	if c.Upload.MaxThumbnailSize <= 0 || c.Upload.MaxAvatarSize <= 0 {
		return errors.New("upload size limits must be positive")
	}

	return nil
}
