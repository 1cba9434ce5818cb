package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Store backends accepted by MARKS_STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline enforced by the router
	MaxBodyBytes    int64         // max accepted request body size

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store          string // "sqlite" | "postgres" | "redis" | "memory"
	DatabaseURL    string // sqlite path or postgres DSN
	DBMaxOpenConns int    // sql pool size
	SeedFile       string // optional YAML file imported on startup

	// Redis (only when Store == "redis")
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict /bookmarks to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

// Load reads .env files (if any) and the environment. Invalid required
// values panic so the process never starts half configured.
func Load() *Config {
	loadDotEnv()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARKS_LISTEN_PORT", ":8000"),
		ShutdownTimeout: mustDuration("MARKS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("MARKS_REQUEST_TIMEOUT", 5*time.Second),
		MaxBodyBytes:    int64(getenvInt("MARKS_MAX_BODY_BYTES", 1<<20)),

		// Logging
		LogLevel:  getenv("MARKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MARKS_PRETTY_LOG", true),

		// Storage
		Store:          strings.ToLower(getenv("MARKS_STORE", StoreSQLite)),
		DBMaxOpenConns: getenvInt("MARKS_DB_MAX_OPEN_CONNS", 10),
		SeedFile:       getenv("MARKS_SEED_FILE", ""),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("MARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("MARKS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MARKS_TRUST_PROXY", false),
	}

	if !logger.ValidLevel(cfg.LogLevel) {
		panic(fmt.Sprintf("❌ FATAL: Invalid MARKS_LOG_LEVEL %q (want debug, info, warn or error)", cfg.LogLevel))
	}

	switch cfg.Store {
	case StoreSQLite:
		cfg.DatabaseURL = getenv("MARKS_DATABASE_URL", "marks.db")
	case StorePostgres:
		cfg.DatabaseURL = requireEnv("MARKS_DATABASE_URL")
	case StoreRedis:
		loadRedis(cfg)
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown MARKS_STORE %q (want sqlite, postgres, redis or memory)", cfg.Store))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("MARKS_REDIS_ADDR")
	cfg.RedisUser = getenv("MARKS_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("MARKS_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("MARKS_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("MARKS_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("MARKS_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("MARKS_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("MARKS_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("MARKS_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("MARKS_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("MARKS_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("MARKS_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("MARKS_REDIS_WARN_THRESHOLD", 3)
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.Store == StorePostgres && cp.DatabaseURL != "" {
		cp.DatabaseURL = "***REDACTED***"
	}
	return cp
}

// loadDotEnv loads .env.local then .env; variables already set win.
func loadDotEnv() {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			log.Printf("[WARN] failed to load %s: %v", f, err)
		}
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
