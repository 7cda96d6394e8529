package config

import (
	"os"
	"time"
)

const (
	appNameVar         = "APP_NAME"
	apiBaseURLVar      = "API_BASE_URL"
	folderEnvVar       = "DATA_FOLDER"
	refreshIntervalVar = "REFRESH_INTERVAL"
	logLevelVar        = "LOG_LEVEL"
)

const defaultRefreshInterval = 30 * time.Second

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "PostPilot")
}

// GetAPIBaseURL returns the root of the remote dashboard API, including the
// /api prefix.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:5000/api")
}

// GetDataFolder returns the folder holding the durable session copy.
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetRefreshInterval returns how often entity lists are re-fetched.
// Unparseable values fall back to the default rather than failing startup.
func (EnvVars) GetRefreshInterval() time.Duration {
	raw := GetEnv(refreshIntervalVar, "")
	if raw == "" {
		return defaultRefreshInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultRefreshInterval
	}
	return d
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
