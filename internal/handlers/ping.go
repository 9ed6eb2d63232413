package handlers

import (
	"net/http"
	"time"

	"github.com/senyabanana/procurement-service/internal/utils"
)

// HealthStatus is the body returned by the health endpoints.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// PingHandler handles GET /api/ping and GET /api/health.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, HealthStatus{Status: "ok", Timestamp: time.Now().UTC()})
}
