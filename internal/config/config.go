package config

import (
	"os"
	"strconv"
	"time"
)

// OwnershipDenial selects the status for requests that touch a record owned by
// someone else. "forbidden" answers 403 and leaks existence; "not_found"
// answers 404 uniformly for both absent and foreign records.
type OwnershipDenial string

const (
	DenyForbidden OwnershipDenial = "forbidden"
	DenyNotFound  OwnershipDenial = "not_found"
)

type PasswordPolicy struct {
	MinLength    int
	RequireUpper bool
	RequireDigit bool
}

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	OwnershipDenial OwnershipDenial
	ListLimit       int
	Password        PasswordPolicy
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fitlog"),
		DBPassword: getEnv("DB_PASSWORD", "fitlog_dev_password"),
		DBName:     getEnv("DB_NAME", "fitlog"),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   getEnv("JWT_ISSUER", "fitlog"),
		JWTAudience: getEnv("JWT_AUDIENCE", "fitlog-clients"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 720*time.Hour),

		OwnershipDenial: ownershipDenial(getEnv("OWNERSHIP_DENIAL", string(DenyForbidden))),
		ListLimit:       getEnvInt("LIST_LIMIT", 100),
		Password: PasswordPolicy{
			MinLength:    getEnvInt("PASSWORD_MIN_LENGTH", 6),
			RequireUpper: getEnvBool("PASSWORD_REQUIRE_UPPER", false),
			RequireDigit: getEnvBool("PASSWORD_REQUIRE_DIGIT", false),
		},
	}
}

func ownershipDenial(s string) OwnershipDenial {
	if s == string(DenyNotFound) {
		return DenyNotFound
	}
	return DenyForbidden
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
