package handler

import "net/http"

// Health handles GET /api/health, a public liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, envelope{"status": "ok"})
}
