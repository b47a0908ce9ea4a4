package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"todo_webapp/internal/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	AppPort     string
	AppVersion  string
	DatabaseURL string
	JWTSecret   string
	SessionTTL  time.Duration

	// Redis holds live sessions so logout can revoke tokens. Optional.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BcryptCost   int
	CookieSecure bool

	LogLevel string
	LogJSON  bool
}

// Load reads .env (if present) and the process environment. Missing required
// values are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	port := getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	version := getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	sessionTTL := 24 * time.Hour
	if v := getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionTTL = time.Duration(n) * time.Hour
		}
	}

	redisDB := 0
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	bcryptCost := bcrypt.DefaultCost
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return nil, errors.New("BCRYPT_COST must be between 4 and 31")
		}
		bcryptCost = n
	}

	logLevel := getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:       port,
		AppVersion:    version,
		DatabaseURL:   dbURL,
		JWTSecret:     jwtSecret,
		SessionTTL:    sessionTTL,
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		BcryptCost:    bcryptCost,
		CookieSecure:  getenv("COOKIE_SECURE") == "true",
		LogLevel:      logLevel,
		LogJSON:       getenv("LOG_JSON") == "true",
	}, nil
}
