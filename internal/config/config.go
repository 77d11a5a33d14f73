package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	APIURL        string
	Timeout       time.Duration
	PollInterval  time.Duration
	TokenFile     string
	CacheIdentity bool
	LogLevel      string
}

func LoadConfig() *Config {
	return &Config{
		APIURL:        getEnv("JOBMATCH_API_URL", "http://localhost:8080/api"),
		Timeout:       getDuration("JOBMATCH_TIMEOUT", 10*time.Second),
		PollInterval:  getDuration("JOBMATCH_POLL_INTERVAL", 3*time.Second),
		TokenFile:     getEnv("JOBMATCH_TOKEN_FILE", defaultTokenFile()),
		CacheIdentity: getBool("JOBMATCH_CACHE_IDENTITY", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// ServerConfig configures the local development backend.
type ServerConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
	Seed      bool
	LogLevel  string
}

func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:  getDuration("JWT_TTL", 24*time.Hour),
		Seed:      getBool("DEVSERVER_SEED", true),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".jobmatch", "token")
	}
	return filepath.Join(home, ".jobmatch", "token")
}

type Logger struct {
	zerolog.Logger
}

// SetupLogger writes to stderr so log lines never interleave with what the
// terminal client renders on stdout.
func SetupLogger(cfg *Config) *Logger {
	return newLogger(cfg.LogLevel)
}

func SetupServerLogger(cfg *ServerConfig) *Logger {
	return newLogger(cfg.LogLevel)
}

func newLogger(levelName string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{logger}
}
