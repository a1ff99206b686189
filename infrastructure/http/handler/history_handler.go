package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/infrastructure/http/middleware"
	"github.com/mintrail/mintrail/infrastructure/http/response"
)

// HistoryHandler handles HTTP requests for the audit ledger.
type HistoryHandler struct {
	historyUseCase inbound.HistoryUseCase
	authMiddleware *middleware.AuthMiddleware
}

func NewHistoryHandler(historyUseCase inbound.HistoryUseCase, authMiddleware *middleware.AuthMiddleware) *HistoryHandler {
	return &HistoryHandler{
		historyUseCase: historyUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/history", h.authMiddleware.RequireAuth(h.List)).Methods("GET")
	router.HandleFunc("/v1/history", h.authMiddleware.RequireAuth(h.Record)).Methods("POST")
	router.HandleFunc("/v1/history/export", h.authMiddleware.RequireAuth(h.Export)).Methods("GET")
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	req := inbound.RangeRequest{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}

	events, err := h.historyUseCase.List(r.Context(), session, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "History retrieved", events)
}

func (h *HistoryHandler) Record(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req inbound.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	event, err := h.historyUseCase.Record(r.Context(), session, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "History recorded", event)
}

func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	req := inbound.RangeRequest{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}

	artifact, err := h.historyUseCase.Export(r.Context(), session, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Content)
}
