package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platewise/reservations/models"
)

// Config collects the runtime settings. Everything is read from the
// environment (usually via a .env file) with working defaults, so the
// binary runs with no configuration at all.
type Config struct {
	DataDir         string
	AdminUsername   string
	AdminPassword   string
	ReferenceDate   string
	ReferenceHour   int
	ReferenceMinute int
}

// Load reads the environment. REFERENCE_DATE (YYYY-MM-DD) and
// REFERENCE_TIME (HH:MM) pin the validation clock for deterministic runs;
// otherwise the wall clock at startup is used.
func Load() Config {
	cfg := Config{
		DataDir:       envOr("DATA_DIR", "data"),
		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),
	}

	now := time.Now()
	cfg.ReferenceDate = envOr("REFERENCE_DATE", now.Format("2006-01-02"))
	cfg.ReferenceHour = now.Hour()
	cfg.ReferenceMinute = now.Minute()
	if v := os.Getenv("REFERENCE_TIME"); v != "" {
		if h, m, ok := parseClock(v); ok {
			cfg.ReferenceHour = h
			cfg.ReferenceMinute = m
		}
	}
	return cfg
}

// Clock returns the reference clock reservations are validated against.
func (c Config) Clock() models.Clock {
	return models.Clock{Date: c.ReferenceDate, Hour: c.ReferenceHour, Minute: c.ReferenceMinute}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseClock(v string) (int, int, bool) {
	hs, ms, ok := strings.Cut(v, ":")
	if !ok {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
