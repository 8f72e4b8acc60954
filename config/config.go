package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment
// variables, with sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Identity provider token verification
	IdentitySecret string

	// Realtime pushes: "pusher" (default) or "redis"
	RealtimeDriver string
	PusherAppID    string
	PusherKey      string
	PusherSecret   string
	PusherCluster  string
	PushTimeout    time.Duration

	// RabbitMQ hand-off for realtime pushes; empty URL disables the
	// queue and pushes go out inline.
	RabbitMQURL        string
	RabbitMQPushQueue  string
	PushWorkerPrefetch int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "gharnirman-core"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "gharnirman"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		IdentitySecret: getenv("IDENTITY_TOKEN_SECRET", "devidentitysecret"),

		RealtimeDriver: getenv("REALTIME_DRIVER", "pusher"),
		PusherAppID:    getenv("PUSHER_APP_ID", ""),
		PusherKey:      getenv("PUSHER_KEY", ""),
		PusherSecret:   getenv("PUSHER_SECRET", ""),
		PusherCluster:  getenv("PUSHER_CLUSTER", "ap2"),
		PushTimeout:    getdur("PUSH_TIMEOUT", 2*time.Second),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQPushQueue:  getenv("RABBITMQ_PUSH_QUEUE", "realtime-pushes"),
		PushWorkerPrefetch: getint("PUSH_WORKER_PREFETCH", 16),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// PostgresDSN returns a DSN compatible with pgx.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as a slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
