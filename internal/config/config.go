package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// SecretKey signs session cookies and password reset tokens.
	// Must be overridden when ENV=prod.
	SecretKey string

	// Env is "dev" (default) or "prod".
	Env string

	// SessionLifetime is how long a login stays valid (default 24h).
	// RememberLifetime applies when the user checks "beni unutma" (default 720h).
	SessionLifetime  time.Duration
	RememberLifetime time.Duration

	// SMTP settings for password reset mail. When SMTPHost is empty,
	// mail is written to the log instead of being sent.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// UploadDir is where avatar images are stored.
	UploadDir string

	// BaseURL is the externally reachable URL used in reset links.
	BaseURL string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "soruforum"),
		DBUser: getEnv("DB_USER", "soruforum"),
		DBPass: getEnv("DB_PASS", "soruforum"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		SecretKey: getEnv("SECRET_KEY", "dev-secret-key"),
		Env:       getEnv("ENV", "dev"),

		SessionLifetime:  time.Duration(getEnvInt("SESSION_HOURS", 24)) * time.Hour,
		RememberLifetime: time.Duration(getEnvInt("REMEMBER_HOURS", 720)) * time.Hour,

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "noreply@soruforum.local"),

		UploadDir: getEnv("UPLOAD_DIR", "static/profile_pics"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
