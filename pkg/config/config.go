package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	AllowedOrigins   []string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	LogLevel  string
	LogFormat string

	// Symmetric key used to encrypt stored portal passwords.
	CredSecretKey string

	// Portal sync agent settings.
	PortalBaseURL       string
	PortalDashboardPath string
	BrowserMode         string // "managed" or "local"
	BrowserWSURL        string
	ProfileDir          string
	SyncDeadline        time.Duration
	SyncCron            string

	FirebaseCredentials string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	syncDeadline := 6 * time.Minute
	if d := os.Getenv("PORTAL_SYNC_DEADLINE"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			syncDeadline = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=campusmate port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		CredSecretKey: getEnv("CRED_SECRET_KEY", "dev-credential-secret-change-in-production"),

		PortalBaseURL:       getEnv("PORTAL_BASE_URL", "https://portal.university.edu"),
		PortalDashboardPath: getEnv("PORTAL_DASHBOARD_PATH", "/Student/Dashboard"),
		BrowserMode:         getEnv("BROWSER_MODE", "local"),
		BrowserWSURL:        getEnv("BROWSER_WS_URL", ""),
		ProfileDir:          getEnv("BROWSER_PROFILE_DIR", "./.browser-profiles"),
		SyncDeadline:        syncDeadline,
		SyncCron:            getEnv("PORTAL_SYNC_CRON", "0 */6 * * *"),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
