package config

import (
	"os"
	"runtime"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// DatabaseURL enables the conversion audit log and the contact endpoint
	// when set. The conversion pipeline itself never touches the database.
	DatabaseURL string
	// JWKSURL enables bearer-token authentication on /api routes when set.
	JWKSURL string
	// PythonPath pins the interpreter and is probed ahead of the built-in
	// candidate list.
	PythonPath string
	// MaxConcurrent caps simultaneous external conversion processes.
	MaxConcurrent int
	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWKSURL:         getEnv("JWKS_URL", ""),
		PythonPath:      getEnv("PYTHON_PATH", ""),
		MaxConcurrent:   getEnvInt("MAX_CONCURRENT_CONVERSIONS", runtime.NumCPU()),
		ShutdownTimeout: 10 * time.Second,
		// Debug defaults to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
