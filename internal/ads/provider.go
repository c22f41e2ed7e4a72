// Package ads abstracts the advertisement SDK. The tracker only ever sees
// the boolean outcome, so swapping in a real network never touches it.
package ads

import (
	"context"
)

type Provider interface {
	// ShowInterstitial blocks until the interstitial finishes.
	ShowInterstitial(ctx context.Context) error

	// ShowRewarded blocks until the ad finishes and reports whether the
	// reward was actually granted (the user may skip out).
	ShowRewarded(ctx context.Context) (bool, error)
}
