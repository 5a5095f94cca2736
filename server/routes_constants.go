package server

// Route path constants
// All gateway routes are defined here to ensure consistency and prevent typos
const (
	// Auth proxy routes (cookie channel for the refresh token)
	RouteAuthLogin   = "/api/auth/login"
	RouteAuthRefresh = "/api/auth/refresh"
	RouteAuthLogout  = "/api/auth/logout"

	// Chat widget (SSE)
	RouteChat = "/api/chat"

	// Backend passthrough
	RouteBackendProxy = "/api/v1/"
)
