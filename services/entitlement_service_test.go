package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroAppAPI/internal/store"
	"agroAppAPI/internal/types/account"
)

func newEntitlementFixture(t *testing.T) (*EntitlementService, *store.Memory, time.Time) {
	t.Helper()
	mem := store.NewMemory()
	svc := NewEntitlementService(mem)
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, mem, now
}

func TestCheckPremiumUnknownUser(t *testing.T) {
	svc, _, _ := newEntitlementFixture(t)

	assert.False(t, svc.CheckPremium(context.Background(), "u-missing"))
}

func TestCheckPremiumFlagUnset(t *testing.T) {
	svc, mem, _ := newEntitlementFixture(t)
	mem.PutAccount(&account.Account{ID: "u1", Email: "u1@example.com"})

	assert.False(t, svc.CheckPremium(context.Background(), "u1"))
}

func TestCheckPremiumLifetime(t *testing.T) {
	svc, mem, _ := newEntitlementFixture(t)
	mem.PutAccount(&account.Account{ID: "u1", IsPremium: true})

	assert.True(t, svc.CheckPremium(context.Background(), "u1"))
}

func TestCheckPremiumFutureExpiry(t *testing.T) {
	svc, mem, now := newEntitlementFixture(t)
	until := now.Add(time.Hour)
	mem.PutAccount(&account.Account{ID: "u1", IsPremium: true, PremiumUntil: &until})

	assert.True(t, svc.CheckPremium(context.Background(), "u1"))
}

func TestCheckPremiumExpiredRepairsFlag(t *testing.T) {
	svc, mem, now := newEntitlementFixture(t)
	until := now.Add(-time.Hour)
	mem.PutAccount(&account.Account{ID: "u1", IsPremium: true, PremiumUntil: &until})

	ctx := context.Background()
	assert.False(t, svc.CheckPremium(ctx, "u1"))

	// The correcting write must be observable on the account.
	acc, err := mem.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, acc.IsPremium)
}

func TestCheckPremiumExpiryBoundary(t *testing.T) {
	// Expiry exactly at "now" counts as expired; one nanosecond later is
	// still entitled.
	svc, mem, now := newEntitlementFixture(t)

	atNow := now
	mem.PutAccount(&account.Account{ID: "u-at", IsPremium: true, PremiumUntil: &atNow})
	assert.False(t, svc.CheckPremium(context.Background(), "u-at"))

	justAfter := now.Add(time.Nanosecond)
	mem.PutAccount(&account.Account{ID: "u-after", IsPremium: true, PremiumUntil: &justAfter})
	assert.True(t, svc.CheckPremium(context.Background(), "u-after"))
}

func TestCheckPremiumRepairFailureStillFalse(t *testing.T) {
	svc, mem, now := newEntitlementFixture(t)
	until := now.Add(-time.Hour)
	mem.PutAccount(&account.Account{ID: "u1", IsPremium: true, PremiumUntil: &until})
	mem.WriteErr = errors.New("write refused")

	// The correction is best effort; the answer does not depend on it.
	assert.False(t, svc.CheckPremium(context.Background(), "u1"))
}

func TestCheckPremiumReadFailureDegrades(t *testing.T) {
	svc, mem, _ := newEntitlementFixture(t)
	mem.PutAccount(&account.Account{ID: "u1", IsPremium: true})
	mem.ReadErr = store.ErrUnavailable

	assert.False(t, svc.CheckPremium(context.Background(), "u1"))
}
