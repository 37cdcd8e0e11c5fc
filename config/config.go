package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DelMonthStyle selects how the delivery month is rendered for the staging
// table. Which style applies is a deployment choice, not runtime logic.
type DelMonthStyle string

const (
	DelMonthISO    DelMonthStyle = "iso"    // 2025-01-01
	DelMonthAbbrev DelMonthStyle = "mon-yy" // JAN-25
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL            string
	PriceFeedURL     string
	Port             string
	PartnerCode      string
	StagingTable     string
	DelMonthStyle    DelMonthStyle
	LegacyRateSplit  bool
	PriceFeedTimeout time.Duration
}

// Load reads configuration from environment variables. A .env file in the
// working directory is honored when present (dev convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	feedURL := os.Getenv("PRICE_FEED_URL")
	if feedURL == "" {
		return nil, fmt.Errorf("PRICE_FEED_URL environment variable is required")
	}

	partner := os.Getenv("PARTNER_CODE")
	if partner == "" {
		return nil, fmt.Errorf("PARTNER_CODE environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	staging := os.Getenv("STAGING_TABLE")
	if staging == "" {
		staging = "commodity_trades_temp"
	}

	style := DelMonthStyle(os.Getenv("DEL_MONTH_STYLE"))
	switch style {
	case "":
		style = DelMonthISO
	case DelMonthISO, DelMonthAbbrev:
	default:
		return nil, fmt.Errorf("DEL_MONTH_STYLE must be %q or %q", DelMonthISO, DelMonthAbbrev)
	}

	legacySplit := false
	if v := os.Getenv("LEGACY_RATE_SPLIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("LEGACY_RATE_SPLIT must be a boolean: %w", err)
		}
		legacySplit = b
	}

	feedTimeout := 30 * time.Second
	if v := os.Getenv("PRICE_FEED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PRICE_FEED_TIMEOUT must be a duration: %w", err)
		}
		feedTimeout = d
	}

	return &Config{
		PGURL:            pgURL,
		PriceFeedURL:     feedURL,
		Port:             port,
		PartnerCode:      partner,
		StagingTable:     staging,
		DelMonthStyle:    style,
		LegacyRateSplit:  legacySplit,
		PriceFeedTimeout: feedTimeout,
	}, nil
}
