package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"surakshaconnect/internal/model"
	"surakshaconnect/internal/service"
	"surakshaconnect/internal/transport/rest/middleware"
)

const (
	defaultUrgentTop = 10
	maxUrgentTop     = 100
)

// VerificationHandler handles triage and request store endpoints
type VerificationHandler struct {
	verifySvc *service.VerificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verifySvc *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifySvc: verifySvc}
}

// VerifyRequest is the request body of POST /v1/verify-request
type VerifyRequest struct {
	Content          string                  `json:"content"`
	Location         string                  `json:"location"`
	ExistingRequests []model.ExistingRequest `json:"existingRequests"`
}

// SubmitRequest is the request body of POST /v1/requests
type SubmitRequest struct {
	Content  string `json:"content"`
	Location string `json:"location"`
}

// Verify handles POST /v1/verify-request
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to verify request")
		return
	}

	result := h.verifySvc.Verify(r.Context(), req.Content, req.Location, req.ExistingRequests)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"verification": result,
	})
}

// Submit handles POST /v1/requests
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.verifySvc.Submit(r.Context(), req.Content, req.Location)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /v1/requests?status=&sort=urgency
func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *model.RequestStatus
	if s := q.Get("status"); s != "" {
		st := model.RequestStatus(s)
		status = &st
	}
	order := service.OrderInserted
	if q.Get("sort") == string(service.OrderUrgency) {
		order = service.OrderUrgency
	}

	requests, err := h.verifySvc.Query(r.Context(), status, order)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// Get handles GET /v1/requests/{id}
func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	req, err := h.verifySvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// Urgent handles GET /v1/requests/urgent?top=N
func (h *VerificationHandler) Urgent(w http.ResponseWriter, r *http.Request) {
	top := defaultUrgentTop
	if s := r.URL.Query().Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		top = min(n, maxUrgentTop)
	}

	entries, err := h.verifySvc.TopUrgent(r.Context(), top)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": entries,
	})
}

// MarkVerified handles POST /v1/requests/{id}/verify
func (h *VerificationHandler) MarkVerified(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.StatusVerified)
}

// MarkFlagged handles POST /v1/requests/{id}/flag
func (h *VerificationHandler) MarkFlagged(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.StatusFlagged)
}

func (h *VerificationHandler) setStatus(w http.ResponseWriter, r *http.Request, to model.RequestStatus) {
	operatorID := middleware.GetOperatorID(r.Context())
	if operatorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	req, err := h.verifySvc.SetStatus(r.Context(), id, to, operatorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// Stats handles GET /v1/stats
func (h *VerificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.verifySvc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// writeServiceError maps service sentinel errors to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrContentRequired), errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "request not found")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
