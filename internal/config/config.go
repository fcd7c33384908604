package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Collection names
	RequestCollection     string `json:"mongo_request_collection"`
	DeclarationCollection string `json:"mongo_declaration_collection"`
	UserCollection        string `json:"mongo_user_collection"`

	// Object storage configuration
	StorageEndpoint  string        `json:"storage_endpoint"`
	StorageAccessKey string        `json:"storage_access_key"`
	StorageSecretKey string        `json:"storage_secret_key"`
	StorageBucket    string        `json:"storage_bucket"`
	StorageUseSSL    bool          `json:"storage_use_ssl"`
	SignedURLExpiry  time.Duration `json:"signed_url_expiry"`

	// Window for the recently-generated listing
	RecentGeneratedWindow time.Duration `json:"recent_generated_window"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "60m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	signedURLExpiry, err := time.ParseDuration(getEnvOrDefault("SIGNED_URL_EXPIRY", "24h"))
	if err != nil {
		return fmt.Errorf("invalid SIGNED_URL_EXPIRY: %w", err)
	}

	recentWindow, err := time.ParseDuration(getEnvOrDefault("RECENT_GENERATED_WINDOW", "168h"))
	if err != nil {
		return fmt.Errorf("invalid RECENT_GENERATED_WINDOW: %w", err)
	}

	storageEndpoint := os.Getenv("STORAGE_ENDPOINT")
	if storageEndpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT environment variable is required")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "declarafacil"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "redis://localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		// Collection names
		RequestCollection:     getEnvOrDefault("MONGODB_REQUEST_COLLECTION", "declaration_requests"),
		DeclarationCollection: getEnvOrDefault("MONGODB_DECLARATION_COLLECTION", "declarations"),
		UserCollection:        getEnvOrDefault("MONGODB_USER_COLLECTION", "users"),

		// Object storage configuration
		StorageEndpoint:  storageEndpoint,
		StorageAccessKey: getEnvOrDefault("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnvOrDefault("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnvOrDefault("STORAGE_BUCKET", "declarations"),
		StorageUseSSL:    getEnvOrDefault("STORAGE_USE_SSL", "false") == "true",
		SignedURLExpiry:  signedURLExpiry,

		RecentGeneratedWindow: recentWindow,

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
