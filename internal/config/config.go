package config

type Config interface {
	EnvConfig
	HTTPConfig
	RouteConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetDataFolder() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	HTTP
	Routes
}

func New() Config {
	return mainConfig{}
}
