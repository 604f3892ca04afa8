package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for the signed-in business
// @Tags metrics
// @Produce json
// @Success 200 {object} Envelope
// @Failure 401 {string} string "Unauthorized"
// @Router /dashboard [get]
// @Security BearerAuth
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: ws.Metrics()})
}
