// Package config loads pantry settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	Port      string
	DBPath    string
	APIURL    string
	LogLevel  string
	LogFormat string

	// Passphrase the stored backend token is encrypted with.
	KeystorePassphrase string

	// Web push (optional; expiry reminders are off without both keys)
	VAPIDPublicKey   string
	VAPIDPrivateKey  string
	ReminderInterval time.Duration

	APIRate        float64
	AllowedOrigins []string

	// Take client IPs from CF-Connecting-IP / X-Forwarded-For. Only safe
	// behind a proxy that overwrites them.
	TrustProxy bool
}

// Load reads an optional .env file and then the PANTRY_* environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getenv("PANTRY_PORT", "8080"),
		DBPath:             getenv("PANTRY_DB_PATH", "pantry.db"),
		APIURL:             strings.TrimRight(os.Getenv("PANTRY_API_URL"), "/"),
		LogLevel:           getenv("PANTRY_LOG_LEVEL", "info"),
		LogFormat:          getenv("PANTRY_LOG_FORMAT", "text"),
		KeystorePassphrase: os.Getenv("PANTRY_KEYSTORE_PASSPHRASE"),
		VAPIDPublicKey:     os.Getenv("PANTRY_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey:    os.Getenv("PANTRY_VAPID_PRIVATE_KEY"),
		ReminderInterval:   time.Hour,
		APIRate:            5,
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("PANTRY_API_URL environment variable not set")
	}

	if v := os.Getenv("PANTRY_REMINDER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid PANTRY_REMINDER_INTERVAL %q", v)
		}
		cfg.ReminderInterval = d
	}

	if v := os.Getenv("PANTRY_API_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("invalid PANTRY_API_RATE %q", v)
		}
		cfg.APIRate = r
	}

	if v := os.Getenv("PANTRY_TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PANTRY_TRUST_PROXY %q", v)
		}
		cfg.TrustProxy = b
	}

	if v := os.Getenv("PANTRY_ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// RemindersEnabled reports whether both VAPID keys are configured.
func (c *Config) RemindersEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
