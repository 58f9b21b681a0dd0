package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port               string
	JWTSecret          string
	AdminUsername      string
	AdminPassword      string
	AdminPasswordHash  string
	SheetID            string
	SheetBaseURL       string
	SheetAccessToken   string
	FallbackEnabled    bool
	FallbackMirror     bool
	FallbackPath       string
	ArkeselAPIKey      string
	ArkeselSenderID    string
	CORSAllowedOrigins []string
	AppTimezone        string
}

func Load() (Config, error) {
	cfg := Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AdminUsername:      strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash:  strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		SheetID:            strings.TrimSpace(os.Getenv("SHEET_ID")),
		SheetBaseURL:       strings.TrimSpace(os.Getenv("SHEET_BASE_URL")),
		SheetAccessToken:   firstNonEmpty(os.Getenv("SHEET_ACCESS_TOKEN"), os.Getenv("SHEET_API_TOKEN")),
		FallbackEnabled:    boolEnv("FALLBACK_ENABLED", false),
		FallbackMirror:     boolEnv("FALLBACK_MIRROR", false),
		FallbackPath:       getEnvOrDefault("FALLBACK_PATH", "data/records.csv"),
		ArkeselAPIKey:      strings.TrimSpace(os.Getenv("ARKESEL_API_KEY")),
		ArkeselSenderID:    getEnvOrDefault("ARKESEL_SENDER_ID", "farmbook"),
		CORSAllowedOrigins: splitCSVEnv(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		AppTimezone:        getEnvOrDefault("APP_TIMEZONE", "Africa/Accra"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required environment variable: JWT_SECRET")
	}
	if cfg.AdminUsername == "" {
		return Config{}, fmt.Errorf("missing required environment variable: ADMIN_USERNAME")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return Config{}, fmt.Errorf("set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func splitCSVEnv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		item := strings.TrimSpace(p)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		t := strings.TrimSpace(v)
		if t != "" {
			return t
		}
	}
	return ""
}

func boolEnv(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
