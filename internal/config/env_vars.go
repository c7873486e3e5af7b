package config

import (
	"os"
	"strings"
)

const (
	appNameVar    = "STOREFRONT_APP_NAME"
	baseURLVar    = "STOREFRONT_API_URL"
	dataFolderVar = "STOREFRONT_FOLDER"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront")
}

// GetBaseURL returns the base URL of the marketplace REST API
// (e.g., "https://api.example.com/api"). A trailing slash is trimmed so
// resource paths can always be appended verbatim.
func (EnvVars) GetBaseURL() string {
	return strings.TrimRight(GetEnv(baseURLVar, "http://localhost:5000/api"), "/")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(dataFolderVar, "./data")
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
