package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	CORSOrigin  string
	LogLevel    string

	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	// Identity provider token verification
	JWTSecret    string
	JWTPublicKey string
	Issuer       string
	Audience     string
	ClockSkew    time.Duration

	// Public client parameters handed to the login page
	Login LoginConfig
}

type LoginConfig struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
}

// Load reads a .env file when present and then the process environment.
// The returned bool reports whether a .env file was loaded.
func Load() (Config, bool) {
	loaded := godotenv.Load() == nil

	return Config{
		Addr:                getenv("APP_ADDR", ":8080"),
		DatabaseURL:         databaseURL(),
		RedisURL:            getenv("REDIS_URL", ""),
		CORSOrigin:          getenv("CORS_ORIGIN", "*"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		SessionSecret:       getenv("SESSION_SECRET", "taskbook-dev-secret"),
		SessionTTL:          time.Duration(getenvInt("SESSION_TTL_SECONDS", 604800)) * time.Second,
		SessionCookieSecure: getenvBool("SESSION_COOKIE_SECURE", false),
		JWTSecret:           getenv("AUTH_JWT_SECRET", ""),
		JWTPublicKey:        getenv("AUTH_JWT_PUBLIC_KEY", ""),
		Issuer:              getenv("AUTH_ISSUER", ""),
		Audience:            getenv("AUTH_AUDIENCE", ""),
		ClockSkew:           time.Duration(getenvInt("AUTH_CLOCK_SKEW_SECONDS", 5)) * time.Second,
		Login: LoginConfig{
			APIKey:            getenv("IDP_API_KEY", ""),
			AuthDomain:        getenv("IDP_AUTH_DOMAIN", ""),
			ProjectID:         getenv("IDP_PROJECT_ID", ""),
			StorageBucket:     getenv("IDP_STORAGE_BUCKET", ""),
			MessagingSenderID: getenv("IDP_MESSAGING_SENDER_ID", ""),
			AppID:             getenv("IDP_APP_ID", ""),
		},
	}, loaded
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from the
// discrete user/password/host/port/dbname variables.
func databaseURL() string {
	if url := getenv("DATABASE_URL", ""); url != "" {
		return url
	}
	dbUser := strings.TrimSpace(os.Getenv("user"))
	dbPass := strings.TrimSpace(os.Getenv("password"))
	dbHost := getenv("host", "localhost")
	dbPort := getenv("port", "5432")
	dbName := getenv("dbname", "taskbook")
	sslMode := getenv("DB_SSLMODE", "require")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", dbUser, dbPass, dbHost, dbPort, dbName, sslMode)
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
