package config

import "time"

// BackendConfig locates the ticketing REST backend the gateway proxies.
type BackendConfig interface {
	GetBackendURL() string
	GetRequestTimeout() time.Duration
}

type Backend struct{}

var _ BackendConfig = Backend{}

func (Backend) GetBackendURL() string {
	return GetEnv("BACKEND_URL", "http://localhost:8000/api/v1")
}

func (Backend) GetRequestTimeout() time.Duration {
	return 15 * time.Second
}
