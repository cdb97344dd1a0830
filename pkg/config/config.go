package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageDatabase = "database"
)

type Config struct {
	Port          string
	Env           string
	JWTSecret     string
	StorageDriver string
	PostgresURL   string
	MongoURI      string
	MongoDatabase string
	MetricsPort   string
	LogLevel      string
	SeedMockData  bool
	APIMode       string
}

// Load reads configuration from the environment, after merging a .env file when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		JWTSecret:     getEnv("JWT_SECRET", getEnv("SESSION_SECRET", "bonfire-demo-secret-key")),
		StorageDriver: getEnv("STORAGE_DRIVER", StorageMemory),
		PostgresURL:   getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "bonfire"),
		MetricsPort:   lookupEnv("METRICS_PORT", "9090"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SeedMockData:  getBool("SEED_MOCK_DATA", true),
		APIMode:       getEnv("API_MODE", "mock"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv differs from getEnv in that an explicitly empty value is kept.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
