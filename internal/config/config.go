package config

import (
	"math"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// PublicBaseURL, when set, is used to build the cdnUrl of stored attachments.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// UploadConfig limits attachment uploads. MaxBytes <= 0 means no limit.
type UploadConfig struct {
	MaxBytes      int64
	PresignExpiry time.Duration
}

// bodyLimitSlack covers the JSON envelope around the base64 fileData.
const bodyLimitSlack = 64 * 1024

// BodyLimit is the request body size that fits a MaxBytes file once base64
// encoded. It is unbounded when MaxBytes is.
func (u UploadConfig) BodyLimit() int {
	if u.MaxBytes <= 0 || u.MaxBytes > (math.MaxInt-bodyLimitSlack)/4*3 {
		return math.MaxInt
	}
	return int(u.MaxBytes*4/3) + bodyLimitSlack
}

// LetterConfig holds defaults used when exporting letters as e-mail messages.
type LetterConfig struct {
	From string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string
	TimeZone string
	LogLevel string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Upload   UploadConfig
	Letter   LetterConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		TimeZone: getEnv("APP_TZ", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "files"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		},
		Auth: AuthConfig{
			Secret:   getEnv("AUTH_SECRET", ""),
			TokenTTL: time.Duration(getEnvInt("AUTH_TOKEN_TTL_HOURS", 30*24)) * time.Hour,
		},
		Upload: UploadConfig{
			MaxBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
			PresignExpiry: time.Duration(getEnvInt("PRESIGN_EXPIRY_MIN", 15)) * time.Minute,
		},
		Letter: LetterConfig{
			From: getEnv("LETTER_FROM", ""),
		},
	}
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
