package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures terminal-level configuration.
type Server struct {
	// HTTP is where and how the local terminal API serves the presentation
	// layer.
	HTTP HTTPConfig
	// MetricsEnabled mounts /metrics on the terminal API.
	MetricsEnabled bool
	LogLevel       string
	// AdminToken guards staff endpoints; empty disables them.
	AdminToken string
	// AdminTokenHash is a bcrypt hash of the staff token, preferred over
	// AdminToken.
	AdminTokenHash string

	Backend  BackendConfig
	Redis    RedisConfig
	Scanner  ScannerConfig
	Station  StationConfig
	Bindings BindingConfig
	Audit    AuditConfig
}

// HTTPConfig sets the listen address and timeouts of the terminal API.
type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	// ShutdownTimeout bounds how long in-flight requests may run on exit.
	ShutdownTimeout time.Duration
}

// BackendConfig points the terminal at the remote counting service.
type BackendConfig struct {
	Endpoint     string
	ClientAPIKey string
	// Mock swaps the remote service for the deterministic in-process mock.
	Mock             bool
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// RedisConfig is optional; an empty URL keeps card bindings in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type ScannerConfig struct {
	RetryDelay time.Duration
}

type StationConfig struct {
	// TerminalID names this terminal; it keys the saved login in Redis.
	TerminalID string
	// GantryMode is the initial direction; staff toggle it at runtime.
	GantryMode string
}

// BindingConfig controls how long CAN ID bindings are remembered locally.
type BindingConfig struct {
	TTL time.Duration
}

// AuditConfig is optional; an empty DatabaseURL keeps the audit trail in
// memory.
type AuditConfig struct {
	DatabaseURL string
	Buffer      int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		HTTP: HTTPConfig{
			Addr:              getEnv("TERMINAL_ADDR", "127.0.0.1:8090"),
			ReadHeaderTimeout: getDuration("TERMINAL_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getDuration("TERMINAL_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      getDuration("TERMINAL_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getDuration("TERMINAL_IDLE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:   getDuration("TERMINAL_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		MetricsEnabled: getEnv("METRICS_ENABLED", "true") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		Backend: BackendConfig{
			Endpoint:         strings.TrimRight(os.Getenv("CLICKER_ENDPOINT"), "/"),
			ClientAPIKey:     os.Getenv("CLIENT_API_KEY"),
			Mock:             os.Getenv("CLICKER_MOCK") == "true",
			Timeout:          getDuration("CLICKER_TIMEOUT", 10*time.Second),
			FailureThreshold: getInt("CLICKER_FAILURE_THRESHOLD", 5),
			Cooldown:         getDuration("CLICKER_COOLDOWN", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 4),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Scanner: ScannerConfig{
			RetryDelay: getDuration("SCANNER_RETRY_DELAY", time.Second),
		},
		Station: StationConfig{
			TerminalID: getEnv("TERMINAL_ID", "terminal-1"),
			GantryMode: getEnv("GANTRY_MODE", "CHECK_IN"),
		},
		Bindings: BindingConfig{
			TTL: getDuration("CAN_BINDING_TTL", 12*time.Hour),
		},
		Audit: AuditConfig{
			DatabaseURL: os.Getenv("AUDIT_DATABASE_URL"),
			Buffer:      getInt("AUDIT_BUFFER", 256),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
