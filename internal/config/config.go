package config

import (
	"os"
)

type Config struct {
	BackendURL  string
	Environment string
	AccessToken string
	JWKSURL     string // Constructed from BackendURL + /auth/.well-known/jwks.json
	WatchPath   string
	// Debug flags
	Debug bool // Enables verbose invalidation logging
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	backendURL := getEnv("DSTU_BACKEND_URL", "http://localhost:7457")

	// Construct JWKS URL from backend URL
	jwksURL := getEnv("DSTU_JWKS_URL", backendURL+"/auth/.well-known/jwks.json")

	return &Config{
		BackendURL:  backendURL,
		Environment: env,
		AccessToken: getEnv("DSTU_ACCESS_TOKEN", ""),
		JWKSURL:     jwksURL,
		WatchPath:   getEnv("DSTU_WATCH_PATH", "/**"),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
