package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthStatus struct {
	Status   string `json:"status"`
	Env      string `json:"env"`
	Sessions int    `json:"sessions"`
}

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive and report open browse sessions
// @Tags health
// @Success 200 {object} HealthStatus
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	status := HealthStatus{Status: "OK", Env: s.Config.AppEnv}
	if s.Sessions != nil {
		status.Sessions = s.Sessions.Len()
	}
	return writeSuccess(c, http.StatusOK, status)
}
