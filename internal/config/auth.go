package config

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	BcryptCost     int
	TokenTTL       time.Duration
	DefaultRegion  string
	SessionKeyTTL  time.Duration
	UserIDRandLen  int
	MaxRequestBody int64
}

func LoadAuthConfig() *AuthConfig {
	return &AuthConfig{
		BcryptCost:     getEnvAsInt("AUTH_BCRYPT_COST", 10),
		TokenTTL:       getEnvAsDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		DefaultRegion:  getEnv("AUTH_PHONE_REGION", "ID"),
		SessionKeyTTL:  getEnvAsDuration("AUTH_SESSION_KEY_TTL", 24*time.Hour),
		UserIDRandLen:  getEnvAsInt("AUTH_USERID_RAND_LEN", 8),
		MaxRequestBody: int64(getEnvAsInt("AUTH_MAX_REQUEST_BODY", 1_048_576)),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
