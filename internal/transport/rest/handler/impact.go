package handler

import (
	"net/http"

	"surakshaconnect/internal/service"
)

// ImpactHandler serves the public impact counter
type ImpactHandler struct {
	tracker *service.ImpactTracker
}

// NewImpactHandler creates a new impact handler
func NewImpactHandler(tracker *service.ImpactTracker) *ImpactHandler {
	return &ImpactHandler{tracker: tracker}
}

// Get handles GET /v1/impact
func (h *ImpactHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.tracker.Snapshot())
}
