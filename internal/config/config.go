package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (locks and live fan-out)
	Redis RedisConfig

	// Mongo configuration (itinerary documents)
	Mongo MongoConfig

	// JWT configuration
	JWT JWTConfig

	// Text-generation service configuration
	Generator GeneratorConfig

	// Planner workflow configuration
	Planner PlannerConfig

	// Rate limit for itinerary generation
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Log configuration
	Log LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	PublicBaseURL   string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis
// and the process falls back to in-memory locks and fan-out.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MongoConfig is only used when ITINERARY_BACKEND=mongo.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// GeneratorConfig holds the chat-completion client settings
type GeneratorConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	Temperature       float64
	MaxAttempts       int
	Timeout           time.Duration
	AttemptTimeout    time.Duration
	BaseBackoff       time.Duration
	StructuredOutput  bool
	UseGoogleADC      bool
	GoogleCredentials string
}

// PlannerConfig holds workflow settings
type PlannerConfig struct {
	StoreBackend     string
	ItineraryBackend string
	PromptMaxBytes   int
	LockTTL          time.Duration
}

// RateLimitConfig bounds how often one user can trigger generation
type RateLimitConfig struct {
	GenerationsPerMinute float64
	Burst                int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// LogConfig selects the slog level and handler
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn(".env file not found, using process environment", "error", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "postgres"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "go2gether"),
			Collection: getEnv("MONGO_ITINERARY_COLLECTION", "itineraries"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 7*24*time.Hour), // 7 days
		},
		Generator: GeneratorConfig{
			BaseURL:           getEnv("GENERATOR_BASE_URL", "https://api.openai.com/v1"),
			APIKey:            getEnv("GENERATOR_API_KEY", ""),
			Model:             getEnv("GENERATOR_MODEL", "gpt-4o-mini"),
			Temperature:       getFloatEnv("GENERATOR_TEMPERATURE", 0.7),
			MaxAttempts:       getIntEnv("GENERATOR_MAX_ATTEMPTS", 3),
			Timeout:           getDurationEnv("GENERATOR_TIMEOUT", 60*time.Second),
			AttemptTimeout:    getDurationEnv("GENERATOR_ATTEMPT_TIMEOUT", 30*time.Second),
			BaseBackoff:       getDurationEnv("GENERATOR_BASE_BACKOFF", 500*time.Millisecond),
			StructuredOutput:  getBoolEnv("GENERATOR_STRUCTURED_OUTPUT", false),
			UseGoogleADC:      getBoolEnv("GENERATOR_USE_GOOGLE_ADC", false),
			GoogleCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Planner: PlannerConfig{
			StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", "postgres")),
			ItineraryBackend: strings.ToLower(getEnv("ITINERARY_BACKEND", "")),
			PromptMaxBytes:   getIntEnv("PROMPT_MAX_BYTES", 12000),
			LockTTL:          getDurationEnv("GENERATION_LOCK_TTL", 2*time.Minute),
		},
		RateLimit: RateLimitConfig{
			GenerationsPerMinute: getFloatEnv("GENERATION_RATE_PER_MINUTE", 6),
			Burst:                getIntEnv("GENERATION_RATE_BURST", 2),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// itinerary documents live next to trips unless told otherwise
	if config.Planner.ItineraryBackend == "" {
		config.Planner.ItineraryBackend = config.Planner.StoreBackend
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Planner.StoreBackend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", c.Planner.StoreBackend)
	}
	switch c.Planner.ItineraryBackend {
	case "postgres", "mongo", "memory":
	default:
		return fmt.Errorf("ITINERARY_BACKEND must be postgres, mongo or memory, got %q", c.Planner.ItineraryBackend)
	}
	if c.Planner.ItineraryBackend == "postgres" && c.Planner.StoreBackend != "postgres" {
		return fmt.Errorf("ITINERARY_BACKEND=postgres requires STORE_BACKEND=postgres")
	}

	// Check required database configuration
	if c.Planner.StoreBackend == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if c.Generator.MaxAttempts < 1 || c.Generator.MaxAttempts > 5 {
		return fmt.Errorf("GENERATOR_MAX_ATTEMPTS must be between 1 and 5")
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		return fmt.Errorf("GENERATOR_TEMPERATURE must be between 0 and 2")
	}
	if c.Planner.PromptMaxBytes < 1024 {
		return fmt.Errorf("PROMPT_MAX_BYTES must be at least 1024")
	}

	if !c.IsGeneratorConfigured() {
		slog.Warn("generator credentials not configured, itinerary generation will fail")
	}
	if c.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR not set, using in-process locks and fan-out")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsGeneratorConfigured checks if the text-generation service has credentials
func (c *Config) IsGeneratorConfigured() bool {
	return c.Generator.APIKey != "" || c.Generator.UseGoogleADC
}

// IsRedisConfigured checks if a Redis address was given
func (c *Config) IsRedisConfigured() bool {
	return c.Redis.Addr != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if p := strings.TrimSpace(part); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
