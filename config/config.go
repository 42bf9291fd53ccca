package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env if present. Safe to call more than once.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return n
}

// SlotDuration is the portal's minimum appointment granularity. Two
// non-terminal appointments of the same patient closer than this conflict.
func SlotDuration() time.Duration {
	return time.Duration(getInt("SLOT_DURATION_MINUTES", 30)) * time.Minute
}

// PremiumBonusTries is the quota clawed back when premium is revoked.
func PremiumBonusTries() int {
	return getInt("PREMIUM_BONUS_TRIES", 5)
}

// DefaultAITries is the quota seeded for newly registered users.
func DefaultAITries() int {
	return getInt("DEFAULT_AI_TRIES", 3)
}

func DirectoryURL() string {
	return os.Getenv("DIRECTORY_URL")
}

func DirectoryTimeout() time.Duration {
	return time.Duration(getInt("DIRECTORY_TIMEOUT_SECONDS", 10)) * time.Second
}

func InferenceURL() string {
	return os.Getenv("INFERENCE_URL")
}

func InferenceTimeout() time.Duration {
	return time.Duration(getInt("INFERENCE_TIMEOUT_SECONDS", 30)) * time.Second
}

func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return secret
}
