package server

import "net/http"

func (s *Server) initRoutes() {
	// Auth proxy (cookie channel)
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Chat widget
	s.RegisterRouteHandler("POST "+RouteChat, ChainMiddleware(s.ChatHandler(), s.APIMiddleware()...))

	// Everything under /api/v1/ goes straight to the backend
	s.RegisterRouteHandler(RouteBackendProxy, ChainMiddleware(s.ProxyHandler(), s.APIMiddleware()...))

	// Built marketing site
	s.RegisterRouteHandler("GET /", ChainMiddleware(s.StaticHandler(), s.SiteMiddleware()...))
}

func (s *Server) StaticHandler() http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(s.config.GetStaticFolder()))
	return func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	}
}
