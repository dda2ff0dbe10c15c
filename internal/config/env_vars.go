package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	portEnvVar         = "PORT"
	appNameVar         = "APP_NAME"
	baseURLVar         = "BASE_URL"
	apiURLVar          = "API_URL"
	logLevelVar        = "LOG_LEVEL"
	logFormatVar       = "LOG_FORMAT"
	sessionStoreVar    = "SESSION_STORE"
	redisURLVar        = "REDIS_URL"
	sessionSecretVar   = "SESSION_SECRET"
	sessionMaxAgeVar   = "SESSION_MAX_AGE"
	profileTimeoutVar  = "PROFILE_SYNC_TIMEOUT"
	allowedOriginsVar  = "ALLOWED_ORIGINS"
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "BlogHub Admin")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the public URL of the admin console (e.g., "https://admin.bloghub.io")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetAPIURL returns the root of the BlogHub content API, without the /api suffix
func (EnvVars) GetAPIURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8000"), "/")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetLogFormat() string {
	return GetEnv(logFormatVar, "console")
}

func (EnvVars) GetSessionStore() string {
	return strings.ToLower(GetEnv(sessionStoreVar, SessionStoreMemory))
}

func (EnvVars) GetRedisURL() string {
	return GetEnv(redisURLVar, "redis://localhost:6379/0")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses a Go duration from envVar, falling back on a missing or malformed value
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
