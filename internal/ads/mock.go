package ads

import (
	"context"
	"log"
	"time"
)

// MockProvider simulates an ad SDK with timers. Delays mirror typical ad
// lengths; Grant controls the rewarded outcome.
type MockProvider struct {
	InterstitialDelay time.Duration
	RewardedDelay     time.Duration
	Grant             bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		InterstitialDelay: 1 * time.Second,
		RewardedDelay:     2 * time.Second,
		Grant:             true,
	}
}

func (p *MockProvider) ShowInterstitial(ctx context.Context) error {
	log.Println("ads: showing interstitial (mock)")
	return wait(ctx, p.InterstitialDelay)
}

func (p *MockProvider) ShowRewarded(ctx context.Context) (bool, error) {
	log.Println("ads: showing rewarded ad (mock)")
	if err := wait(ctx, p.RewardedDelay); err != nil {
		return false, err
	}
	return p.Grant, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
