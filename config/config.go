package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration

	ImageryEndpoint string
	ImageryAPIKey   string
	ImageryTimeout  time.Duration

	CORSOrigins []string
	LogLevel    string
	LogFormat   string // text|json
}

// DevSecret is used when JWT_SECRET is unset. Never run production on it.
const DevSecret = "agrimonitor-dev-secret"

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:            get("PORT", "8080"),
		DBPath:          get("DB_PATH", "agrimonitor.db"),
		JWTSecret:       get("JWT_SECRET", DevSecret),
		TokenTTL:        duration(get("TOKEN_TTL", ""), 24*time.Hour),
		ImageryEndpoint: get("IMAGERY_ENDPOINT", ""),
		ImageryAPIKey:   get("IMAGERY_API_KEY", ""),
		ImageryTimeout:  duration(get("IMAGERY_TIMEOUT", ""), 10*time.Second),
		CORSOrigins:     splitList(get("CORS_ORIGINS", "*")),
		LogLevel:        get("LOG_LEVEL", "info"),
		LogFormat:       get("LOG_FORMAT", "text"),
	}
	return cfg
}

// LogValue keeps the secret and key out of logs.
func (c AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("db", c.DBPath),
		slog.Bool("dev_secret", c.JWTSecret == DevSecret),
		slog.Duration("token_ttl", c.TokenTTL),
		slog.String("imagery_endpoint", c.ImageryEndpoint),
		slog.Bool("imagery_key_set", c.ImageryAPIKey != ""),
		slog.Any("cors_origins", c.CORSOrigins),
		slog.String("log_level", c.LogLevel),
	)
}

// Level maps LOG_LEVEL onto slog; unknown values mean info.
func (c AppConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// duration accepts Go durations ("90m") or plain seconds.
func duration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
