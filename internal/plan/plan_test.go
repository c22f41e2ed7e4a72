package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Premium", cfg.Premium.Name)
	assert.Equal(t, 10.0, cfg.Premium.Price)
	assert.Equal(t, "USD", cfg.Premium.Currency)
	assert.Equal(t, 0.0, cfg.Free.Price)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	data := `
premium:
  name: Premium
  price: 12.5
  currency: EUR
  period: month
  features:
    - No ads
dailyRewardLimit: 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.Premium.Price)
	assert.Equal(t, "EUR", cfg.Premium.Currency)
	assert.Equal(t, 3, cfg.DailyRewardLimit)
	// Untouched sections keep their defaults.
	assert.Equal(t, "Free", cfg.Free.Name)
	assert.NotEmpty(t, cfg.PayPalLink)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte("premium: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestHandoffURLs(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://paypal.me/AgroAppGt/10", cfg.PayPalURL())

	url := cfg.WhatsAppURL("alice@example.com")
	assert.Contains(t, url, "https://wa.me/50241741369?text=")
	assert.Contains(t, url, "alice%40example.com")
}
