package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"agroAppAPI/internal/plan"
	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/premiumrequest"
	"agroAppAPI/middleware"
	"agroAppAPI/services"
)

type PremiumHandler struct {
	entitlementService *services.EntitlementService
	requestService     *services.RequestService
	plans              *plan.Config
}

func NewPremiumHandler(entitlementService *services.EntitlementService, requestService *services.RequestService, plans *plan.Config) *PremiumHandler {
	return &PremiumHandler{
		entitlementService: entitlementService,
		requestService:     requestService,
		plans:              plans,
	}
}

// GetPremiumStatus reports whether the caller is currently entitled. The
// client uses this to decide between the paywall and the feature.
func (h *PremiumHandler) GetPremiumStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"isPremium": h.entitlementService.CheckPremium(ctx, clerkID),
	})
}

// GetPlans serves the plan comparison plus the payment hand-off links. Public:
// the paywall shows before sign-in too.
func (h *PremiumHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	respondWithJSON(w, http.StatusOK, map[string]any{
		"free":        h.plans.Free,
		"premium":     h.plans.Premium,
		"paypalUrl":   h.plans.PayPalURL(),
		"whatsappUrl": h.plans.WhatsAppURL(email),
	})
}

// SubmitPremiumRequest files a manual purchase request for operator review.
func (h *PremiumHandler) SubmitPremiumRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var body premiumrequest.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req, err := h.requestService.Submit(ctx, &premiumrequest.SubmitInput{
		UserID:        clerkID,
		UserEmail:     body.UserEmail,
		PaymentMethod: body.PaymentMethod,
		TransactionID: body.TransactionID,
		Notes:         body.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusServiceUnavailable, "Could not submit request, please try again")
		return
	}

	middleware.CountPremiumRequest(string(req.PaymentMethod))
	respondWithJSON(w, http.StatusCreated, req)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func statusFromStoreErr(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
