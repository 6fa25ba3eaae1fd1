package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. A missing
// .env file is fine; explicit environment variables always win.
type Config struct {
	Port         string
	DataDir      string
	StaticDir    string
	AllowOrigins string

	Cooldown      time.Duration
	LocalCooldown time.Duration

	AutosaveInterval      time.Duration
	CooldownSweepInterval time.Duration
}

// Load reads configuration from the environment, first loading an optional
// .env for local runs.
func Load() Config {
	_ = godotenv.Load() // allow .env for local runs

	return Config{
		Port:                  getString("PORT", "3000"),
		DataDir:               getString("DATA_DIR", "./data"),
		StaticDir:             getString("STATIC_DIR", ""),
		AllowOrigins:          getString("ALLOW_ORIGINS", "http://localhost:3000"),
		Cooldown:              getDuration("COOLDOWN", 10*time.Second),
		LocalCooldown:         getDuration("LOCAL_COOLDOWN", 1*time.Second),
		AutosaveInterval:      getDuration("AUTOSAVE_INTERVAL", 30*time.Second),
		CooldownSweepInterval: getDuration("COOLDOWN_SWEEP_INTERVAL", 5*time.Minute),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("30s", "5m") and, for
// compatibility with the old deployment, bare numbers meaning seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
