package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"agroAppAPI/internal/ads"
	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/adwatch"
)

// AdCreditService counts rewarded-ad views per user per UTC day and sweeps
// out records past the retention window.
type AdCreditService struct {
	watches    store.AdWatchStore
	provider   ads.Provider
	dailyLimit int
	now        func() time.Time
}

func NewAdCreditService(watches store.AdWatchStore, provider ads.Provider, dailyLimit int) *AdCreditService {
	return &AdCreditService{
		watches:    watches,
		provider:   provider,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// CountToday returns how many rewarded ads the user watched since UTC
// midnight. A watch exactly at midnight belongs to today. Store failures
// degrade to zero; this count only gates a reward feature and must never
// break the experience.
func (s *AdCreditService) CountToday(ctx context.Context, userID string) int {
	count, err := s.watches.CountWatchesSince(ctx, userID, startOfDayUTC(s.now()))
	if err != nil {
		log.Printf("AdCredit: failed to count watches for %s: %v", userID, err)
		return 0
	}
	return count
}

// WatchRewarded runs the provider's rewarded ad and records the view when the
// reward was granted. The recording write is not degraded: losing a credit
// the user just earned has to surface.
func (s *AdCreditService) WatchRewarded(ctx context.Context, userID string) (*adwatch.RewardResult, error) {
	granted, err := s.provider.ShowRewarded(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewarded ad: %w", err)
	}

	if granted {
		if err := s.watches.AddWatch(ctx, userID, s.now().UTC()); err != nil {
			return nil, fmt.Errorf("record ad watch for %s: %w", userID, err)
		}
	}

	return &adwatch.RewardResult{
		Granted:      granted,
		WatchedToday: s.CountToday(ctx, userID),
		DailyLimit:   s.dailyLimit,
	}, nil
}

func (s *AdCreditService) ShowInterstitial(ctx context.Context) error {
	return s.provider.ShowInterstitial(ctx)
}

// PurgeExpired removes every ad-watch record dated before the retention
// cutoff (day granularity) and reports how many went. On partial failure the
// count of already removed records is still returned.
func (s *AdCreditService) PurgeExpired(ctx context.Context, userID string, retentionDays int) (int, error) {
	if retentionDays < 1 {
		retentionDays = 1
	}
	cutoff := startOfDayUTC(s.now()).AddDate(0, 0, -retentionDays+1)

	removed, err := s.watches.DeleteWatchesBefore(ctx, userID, cutoff)
	if err != nil {
		return removed, fmt.Errorf("purge ad watches for %s: %w", userID, err)
	}
	return removed, nil
}

func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
