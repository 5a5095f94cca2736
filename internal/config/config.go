package config

type Config interface {
	EnvConfig
	BackendConfig
	ChatConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetStaticFolder() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Backend
	Chat
	Session
	Cors
}

func New() Config {
	return mainConfig{}
}
