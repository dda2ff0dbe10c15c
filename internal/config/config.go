package config

import (
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	RoutesConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetAPIURL() string
	GetLogLevel() string
	GetLogFormat() string
	GetSessionStore() string
	GetRedisURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Routes
}

// New loads an optional .env file from the working directory and returns
// the environment backed configuration.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
