package plan

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

type Plan struct {
	Name     string   `yaml:"name" json:"name"`
	Price    float64  `yaml:"price" json:"price"`
	Currency string   `yaml:"currency" json:"currency,omitempty"`
	Period   string   `yaml:"period" json:"period,omitempty"`
	Features []string `yaml:"features" json:"features"`
}

// Config holds the monetization settings read once at startup. Changing the
// price later never rewrites the amount frozen into existing requests.
type Config struct {
	Free             Plan   `yaml:"free" json:"free"`
	Premium          Plan   `yaml:"premium" json:"premium"`
	PayPalLink       string `yaml:"paypalLink" json:"-"`
	WhatsAppNumber   string `yaml:"whatsappNumber" json:"-"`
	AdminEmail       string `yaml:"adminEmail" json:"-"`
	AdRetentionDays  int    `yaml:"adRetentionDays" json:"-"`
	DailyRewardLimit int    `yaml:"dailyRewardLimit" json:"-"`
}

func Default() *Config {
	return &Config{
		Free: Plan{
			Name:  "Free",
			Price: 0,
			Features: []string{
				"Basic farm management",
				"Up to 50 trees",
				"Basic reports",
				"Ad supported",
			},
		},
		Premium: Plan{
			Name:     "Premium",
			Price:    10,
			Currency: "USD",
			Period:   "month",
			Features: []string{
				"No ads",
				"Unlimited trees",
				"Advanced reports and charts",
				"PDF/Excel export",
				"Multiple farms",
				"Weather forecast",
				"Profitability analysis",
				"Priority support",
			},
		},
		PayPalLink:       "https://paypal.me/AgroAppGt",
		WhatsAppNumber:   "50241741369",
		AdminEmail:       "admin@nadrika.com",
		AdRetentionDays:  1,
		DailyRewardLimit: 5,
	}
}

// Load reads a yaml plan file over the defaults. A missing path keeps the
// defaults; a malformed file is an error since silently wrong prices are
// worse than failing startup.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read plan config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse plan config %s: %w", path, err)
	}
	return cfg, nil
}

// PayPalURL is the paypal.me hand-off link with the premium price appended.
// The server only hands this to the client, it never opens it.
func (c *Config) PayPalURL() string {
	return fmt.Sprintf("%s/%g", c.PayPalLink, c.Premium.Price)
}

// WhatsAppURL is the wa.me deep link with a prefilled upgrade message.
func (c *Config) WhatsAppURL(userEmail string) string {
	msg := fmt.Sprintf("Hello! I am interested in the %s plan ($%g/%s). My email: %s",
		c.Premium.Name, c.Premium.Price, c.Premium.Period, userEmail)
	return fmt.Sprintf("https://wa.me/%s?text=%s", c.WhatsAppNumber, url.QueryEscape(msg))
}
