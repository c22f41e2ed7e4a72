package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"agroAppAPI/middleware"
	"agroAppAPI/services"
)

// watchTracker feeds the background cleanup worker with recently seen users.
type watchTracker interface {
	Track(userID string)
}

type AdsHandler struct {
	adCreditService *services.AdCreditService
	retentionDays   int
	tracker         watchTracker
}

func NewAdsHandler(adCreditService *services.AdCreditService, retentionDays int, tracker watchTracker) *AdsHandler {
	return &AdsHandler{
		adCreditService: adCreditService,
		retentionDays:   retentionDays,
		tracker:         tracker,
	}
}

// GetWatchedToday returns the caller's rewarded-ad count for the current UTC
// day. Degrades to zero on store trouble, by contract.
func (h *AdsHandler) GetWatchedToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h.track(clerkID)
	respondWithJSON(w, http.StatusOK, map[string]int{
		"watchedToday": h.adCreditService.CountToday(ctx, clerkID),
	})
}

// WatchRewarded plays a rewarded ad and credits the view when granted.
func (h *AdsHandler) WatchRewarded(w http.ResponseWriter, r *http.Request) {
	// Mock ad playback takes a couple of seconds on its own.
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.adCreditService.WatchRewarded(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Rewarded ad failed, credit not granted")
		return
	}

	middleware.CountRewardedAd(result.Granted)
	h.track(clerkID)
	respondWithJSON(w, http.StatusOK, result)
}

// ShowInterstitial plays an interstitial for free-tier sessions.
func (h *AdsHandler) ShowInterstitial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := h.adCreditService.ShowInterstitial(ctx); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Interstitial failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "shown"})
}

// CleanupAdWatches sweeps the caller's expired ad-watch records. The mobile
// app calls this on startup; the background worker covers the rest.
func (h *AdsHandler) CleanupAdWatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	retention := h.retentionDays
	if raw := r.URL.Query().Get("retentionDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'retentionDays' must be a positive number")
			return
		}
		retention = parsed
	}

	removed, err := h.adCreditService.PurgeExpired(ctx, clerkID, retention)
	if err != nil {
		// Partial sweeps still report what was removed.
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]any{
			"removed": removed,
			"error":   "Cleanup did not finish",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *AdsHandler) track(userID string) {
	if h.tracker != nil {
		h.tracker.Track(userID)
	}
}
