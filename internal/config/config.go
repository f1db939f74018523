package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	LogLevel string

	// User store (relational). Driver is "postgres" or "sqlite".
	UserDBDriver string
	PostgresURL  string
	SQLitePath   string

	// Chat store (document).
	MongoURL string
	MongoDB  string

	// Optional cross-instance broadcast bridge.
	RedisURL string

	JWTSecret          string
	AccessTokenMinutes int

	OpenAIAPIKey      string
	OpenAIModel       string
	UnsplashAccessKey string

	CORSOrigins []string
}

func Load() (*Config, error) {
	// Best-effort; production deployments set real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		AppName: getEnv("APP_NAME", "Smart Messenger API"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 8000),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		UserDBDriver: getEnv("USER_DB_DRIVER", "postgres"),
		PostgresURL:  postgresURL(),
		SQLitePath:   getEnv("SQLITE_PATH", "messenger.db"),

		MongoURL: mongoURL(),
		MongoDB:  getEnv("MONGODB_DB", "messenger"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.UserDBDriver != "postgres" && cfg.UserDBDriver != "sqlite" {
		return nil, fmt.Errorf("USER_DB_DRIVER must be postgres or sqlite, got %q", cfg.UserDBDriver)
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func postgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User: url.UserPassword(
			getEnv("PG_USER", "postgres"),
			getEnv("PG_PASSWORD", "postgres"),
		),
		Host:     fmt.Sprintf("%s:%s", getEnv("PG_HOST", "localhost"), getEnv("PG_PORT", "5432")),
		Path:     getEnv("PG_DATABASE", "messenger"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func mongoURL() string {
	if v := os.Getenv("MONGODB_URL"); v != "" {
		return v
	}
	u := url.URL{
		Scheme: "mongodb",
		User: url.UserPassword(
			getEnv("MONGODB_USER", "mongo"),
			getEnv("MONGODB_PASSWORD", "mongo"),
		),
		Host:     fmt.Sprintf("%s:%s", getEnv("MONGODB_HOST", "localhost"), getEnv("MONGODB_PORT", "27017")),
		Path:     "/" + getEnv("MONGODB_DB", "messenger"),
		RawQuery: "authSource=admin",
	}
	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
