package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/infrastructure/http/middleware"
	"github.com/mintrail/mintrail/infrastructure/http/response"
	"github.com/mintrail/mintrail/infrastructure/http/validator"
)

// DistributionHandler handles HTTP requests for the claim/send workflow.
// Commit endpoints additionally pass through the rate limit middleware.
type DistributionHandler struct {
	distributionUseCase inbound.DistributionUseCase
	authMiddleware      *middleware.AuthMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewDistributionHandler(distributionUseCase inbound.DistributionUseCase, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) *DistributionHandler {
	return &DistributionHandler{
		distributionUseCase: distributionUseCase,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *DistributionHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/v1/distribution/claim", h.rateLimitMiddleware.RateLimit(h.authMiddleware.RequireAuth(h.Claim))).Methods("POST")
	router.Handle("/v1/distribution/send", h.rateLimitMiddleware.RateLimit(h.authMiddleware.RequireAuth(h.Send))).Methods("POST")
	router.Handle("/v1/distribution/approval", h.rateLimitMiddleware.RateLimit(h.authMiddleware.RequireAuth(h.SetApproval))).Methods("POST")
	router.HandleFunc("/v1/distribution/holdings", h.authMiddleware.RequireAuth(h.Holdings)).Methods("GET")
}

func (h *DistributionHandler) Claim(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req inbound.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Collection) {
		response.BadRequest(w, "Collection is required")
		return
	}

	resp, err := h.distributionUseCase.Claim(r.Context(), session, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Claim committed", resp)
}

func (h *DistributionHandler) Send(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req inbound.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Collection) {
		response.BadRequest(w, "Collection is required")
		return
	}
	if !validator.ValidateAddress(req.RecipientAddress) {
		response.BadRequest(w, "Invalid recipient address")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}

	resp, err := h.distributionUseCase.Send(r.Context(), session, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Send committed", resp)
}

func (h *DistributionHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req inbound.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Collection) {
		response.BadRequest(w, "Collection is required")
		return
	}

	resp, err := h.distributionUseCase.SetApproval(r.Context(), session, req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Approval updated", resp)
}

func (h *DistributionHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	collection := r.URL.Query().Get("collection")
	if !validator.ValidateRequired(collection) {
		response.BadRequest(w, "Collection is required")
		return
	}

	resp, err := h.distributionUseCase.Holdings(r.Context(), session, collection)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Holdings retrieved", resp)
}
