package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"surakshaconnect/internal/model"
	"surakshaconnect/internal/service"
)

// TeamHandler handles the /websocket placeholder endpoint
type TeamHandler struct {
	teamSvc *service.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamSvc *service.TeamService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc}
}

// Capabilities handles GET /v1/websocket
func (h *TeamHandler) Capabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.teamSvc.Capabilities())
}

// Message handles POST /v1/websocket
func (h *TeamHandler) Message(w http.ResponseWriter, r *http.Request) {
	var msg model.TeamMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	resp, err := h.teamSvc.HandleMessage(msg)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMessageType) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
