package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

type Config struct {
	BindAddress   string
	Port          int
	DatabaseURL   string
	DatabaseType  string
	PublicURL     string
	APIPrefix     string
	SweepInterval time.Duration
	TrustProxy    bool
	LogLevel      slog.Level
	LogFormat     string

	// Endpoints is derived from PublicURL and APIPrefix once, in Load.
	Endpoints Endpoints
	// Args holds the positional arguments left after the flags.
	Args []string
}

// Endpoints are the absolute URLs advertised by the API index.
type Endpoints struct {
	Polls       string `json:"polls"`
	PollOptions string `json:"pollOptions"`
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// Load reads .env when present, then parses args. Flags take precedence over
// environment variables.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse(args)
}

// Parse builds the configuration from args and the process environment only.
func Parse(args []string) (Config, error) {
	var cfg Config

	port, err := envInt("PORT", 1337)
	if err != nil {
		return Config{}, err
	}
	sweepInterval, err := envDuration("SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	trustProxy, err := envBool("TRUST_PROXY", false)
	if err != nil {
		return Config{}, err
	}
	var logLevel string

	flags := flag.NewFlagSet("quickpoll", flag.ContinueOnError)
	flags.StringVar(&cfg.BindAddress, "bind", envString("BIND_ADDRESS", "0.0.0.0"), "Address to listen on")
	flags.IntVar(&cfg.Port, "port", port, "Port to listen on")
	flags.StringVar(&cfg.DatabaseURL, "db-url", os.Getenv("DATABASE_URL"), "Database URL (postgres DSN or sqlite file)")
	flags.StringVar(&cfg.DatabaseType, "db-type", envString("DATABASE_TYPE", DatabasePostgres), "Database type (postgres or sqlite)")
	flags.StringVar(&cfg.PublicURL, "public-url", os.Getenv("PUBLIC_URL"), "Base URL clients reach the server at")
	flags.StringVar(&cfg.APIPrefix, "api-prefix", envString("API_PREFIX", "/api"), "Path prefix of every API route")
	flags.DurationVar(&cfg.SweepInterval, "sweep-interval", sweepInterval, "Interval between expired poll sweeps")
	flags.BoolVar(&cfg.TrustProxy, "trust-proxy", trustProxy, "Take the voter address from X-Forwarded-For / X-Real-IP")
	flags.StringVar(&logLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", envString("LOG_FORMAT", "text"), "Log format (text or json)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = flags.Args()

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -db-url or DATABASE_URL env)")
	}
	switch cfg.DatabaseType {
	case DatabasePostgres, DatabaseSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, errors.New("sweep interval must be positive")
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q", logLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)
	cfg.Endpoints = Endpoints{
		Polls:       cfg.PublicURL + cfg.APIPrefix + "/polls",
		PollOptions: cfg.PublicURL + cfg.APIPrefix + "/poll-options",
	}

	return cfg, nil
}

// NewLogger builds the process logger from LogFormat and LogLevel.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// normalizePrefix returns "" for the root or "/x/y" without a trailing slash.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return b, nil
}
