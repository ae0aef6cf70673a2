package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	APIBaseURL      string
	UpstreamTimeout time.Duration

	SessionSecret string
	CookieSecure  bool
	ConsoleCookie string
	FlashCookie   string

	ConsoleIdleTTL    time.Duration
	ConsoleSweepEvery time.Duration
	ListMaxAge        time.Duration
	ListAwaitTimeout  time.Duration

	Storage StorageConfig
}

// StorageConfig selects where console sessions are persisted.
type StorageConfig struct {
	Driver   string // local|memory|mysql|redis|s3
	LocalDir string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	S3Region string
	S3Bucket string
	S3Prefix string
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		APIBaseURL:      strings.TrimRight(getenv("RBSLOT_API_URL", "https://rbslot.onrender.com/api"), "/"),
		UpstreamTimeout: getenvDuration("UPSTREAM_TIMEOUT", 30*time.Second),

		SessionSecret: getenv("SESSION_SECRET", "dev-secret-change-me"),
		CookieSecure:  getenvBool("COOKIE_SECURE", false),
		ConsoleCookie: getenv("CONSOLE_COOKIE", "rbslot_console"),
		FlashCookie:   getenv("FLASH_COOKIE", "rbslot_flash"),

		ConsoleIdleTTL:    getenvDuration("CONSOLE_IDLE_TTL", 2*time.Hour),
		ConsoleSweepEvery: getenvDuration("CONSOLE_SWEEP_EVERY", 5*time.Minute),
		ListMaxAge:        getenvDuration("LIST_MAX_AGE", 30*time.Second),
		ListAwaitTimeout:  getenvDuration("LIST_AWAIT_TIMEOUT", 10*time.Second),

		Storage: StorageConfig{
			Driver:        strings.ToLower(getenv("STORAGE_DRIVER", "local")),
			LocalDir:      getenv("LOCAL_STATE_DIR", "./storage/state"),
			DatabaseDSN:   getenv("DB_DSN", ""),
			RedisAddr:     getenv("REDIS_ADDR", ""),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("REDIS_DB", 0),
			RedisPrefix:   getenv("REDIS_PREFIX", "rbslot-admin:"),
			S3Region:      getenv("S3_REGION", ""),
			S3Bucket:      getenv("S3_BUCKET", ""),
			S3Prefix:      getenv("S3_PREFIX", "console-state"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
