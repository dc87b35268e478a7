package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	AppEnv          string
	HTTPTimeout     time.Duration
	SearchDebounce  time.Duration
	CredentialsFile string
}

const (
	defaultAPIBaseURL    = "http://localhost:5000/api"
	defaultHTTPTimeoutMS = 10000
	defaultSearchDelayMS = 500
	credentialsFileName  = "storefront/credentials.json"
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:      os.Getenv("API_URL"),
		AppEnv:          os.Getenv("APP_ENV"),
		HTTPTimeout:     msEnv("HTTP_TIMEOUT_MS", defaultHTTPTimeoutMS),
		SearchDebounce:  msEnv("SEARCH_DEBOUNCE_MS", defaultSearchDelayMS),
		CredentialsFile: os.Getenv("CREDENTIALS_FILE"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}

	if cfg.CredentialsFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.CredentialsFile = filepath.Join(dir, credentialsFileName)
		} else {
			cfg.CredentialsFile = credentialsFileName
		}
	}

	return cfg
}

func msEnv(key string, fallback int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}
