package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"agroAppAPI/middleware"
	"agroAppAPI/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListPremiumRequests returns the newest requests for the operator screen.
func (h *AdminHandler) ListPremiumRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'limit' must be a number")
			return
		}
		limit = parsed
	}

	requests, err := h.adminService.ListRecent(ctx, limit)
	if err != nil {
		respondWithError(w, statusFromStoreErr(err), "Could not load premium requests")
		return
	}

	respondWithJSON(w, http.StatusOK, requests)
}

// ApprovePremiumRequest flips the requester's entitlement and marks the
// request approved, attributed to the operator.
func (h *AdminHandler) ApprovePremiumRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	approverID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	requestID := mux.Vars(r)["requestID"]
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing request id")
		return
	}

	req, err := h.adminService.Approve(ctx, requestID, approverID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyApproved):
			respondWithError(w, http.StatusConflict, "Request is already approved")
		default:
			log.Printf("Admin: approving request %s failed: %v", requestID, err)
			respondWithError(w, statusFromStoreErr(err), "Could not approve request")
		}
		return
	}

	middleware.CountPremiumApproval()
	respondWithJSON(w, http.StatusOK, req)
}
