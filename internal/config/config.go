package config

import (
	"os"
	"strings"
)

type Config struct {
	PostgresURI     string
	RedisURI        string
	MongoURI        string
	Port            string
	AllowedOrigins  []string // CORS: from ALLOWED_ORIGINS, comma-separated
	Environment     string   // ENV: production, development, etc.
	ThrottleEnforce bool     // THROTTLE_ENFORCE: when true, per-endpoint throttles reject over-limit requests
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		PostgresURI:     getEnv("POSTGRES_URI", "postgres://localhost:5432/spamlookup?sslmode=disable"),
		RedisURI:        getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:        getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/spamlookup")),
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  allowedOrigins,
		Environment:     env,
		ThrottleEnforce: parseBool(getEnv("THROTTLE_ENFORCE", "false")),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
