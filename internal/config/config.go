package config

import (
	"os"
	"strconv"
	"time"

	"ebdmanager/internal/models"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	ApplyRateLimit int
	RequestTimeout time.Duration
	TrustProxy     bool
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration

	LogLevel  string
	LogPretty bool
	Debug     bool

	ChurchName            string
	LowFrequencyThreshold int

	AWSRegion      string
	SESFromEmail   string
	SESFromName    string
	SecretaryEmail string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		ApplyRateLimit: getEnvInt("APPLY_RATE_LIMIT", 5),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./ebd.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
		Debug:     getEnvBool("DEBUG", false),

		ChurchName:            getEnv("CHURCH_NAME", "Escola Bíblica Dominical"),
		LowFrequencyThreshold: getEnvInt("LOW_FREQUENCY_THRESHOLD", 4),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:   getEnv("SES_FROM_EMAIL", ""),
		SESFromName:    getEnv("SES_FROM_NAME", "EBD"),
		SecretaryEmail: getEnv("SECRETARY_EMAIL", ""),
	}
}

// ChurchSettings returns the configured defaults for the per-church options.
func (c *Config) ChurchSettings() models.ChurchSettings {
	return models.ChurchSettings{
		ChurchName:            c.ChurchName,
		LowFrequencyThreshold: c.LowFrequencyThreshold,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Int("default", defaultValue).Msg("environment value is not a number")
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", value).Dur("default", defaultValue).Msg("environment value is not a duration")
		return defaultValue
	}
	return d
}
