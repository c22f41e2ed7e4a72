package services

import (
	"context"
	"errors"
	"log"
	"time"

	"agroAppAPI/internal/store"
)

// EntitlementService decides whether a user currently has premium access.
type EntitlementService struct {
	accounts store.AccountStore
	now      func() time.Time
}

func NewEntitlementService(accounts store.AccountStore) *EntitlementService {
	return &EntitlementService{
		accounts: accounts,
		now:      time.Now,
	}
}

// CheckPremium returns whether the user is entitled right now. A missing
// account is a free-tier user, and a store failure degrades to false since
// this only gates UX affordances. An expired flag is repaired in place: the
// correcting write is best effort and never changes the returned value.
//
// An expiry equal to the current instant counts as expired; only a strictly
// future expiry keeps the entitlement.
func (s *EntitlementService) CheckPremium(ctx context.Context, userID string) bool {
	acc, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Entitlement: failed to load account %s: %v", userID, err)
		}
		return false
	}

	if !acc.IsPremium {
		return false
	}
	if acc.PremiumUntil == nil {
		// Lifetime premium.
		return true
	}
	if s.now().Before(*acc.PremiumUntil) {
		return true
	}

	// Expired. Repair the flag on the way out; two concurrent repairs both
	// write false, so racing here is harmless.
	if err := s.accounts.SetPremium(ctx, userID, false, nil, nil); err != nil {
		log.Printf("Entitlement: expiry correction for %s failed: %v", userID, err)
	}
	return false
}
