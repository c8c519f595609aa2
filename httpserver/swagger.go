package httpserver

import echoSwagger "github.com/swaggo/echo-swagger"

// @title moviefinder API
// @version 1.0
// @description Movie discovery backed by the TMDB catalog.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func (s *Server) RegisterSwaggerRoutes() {
	s.Router.GET("/swagger/*", echoSwagger.WrapHandler)
}
