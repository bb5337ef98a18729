package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// OperatorConfig is the single demo dashboard account
type OperatorConfig struct {
	Email    string
	Password string `json:"-"` // Never serialize
	Name     string
}

// ImpactBaseline holds the starting values of the public impact counter
type ImpactBaseline struct {
	LivesSaved        int
	PeopleHelped      int
	ActiveVolunteers  int
	CommunitiesServed int
}

// CORSConfig controls the CORS response headers
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Config holds all service configuration
type Config struct {
	Port         string
	StoreBackend string
	MongoURI     string
	MongoDB      string
	RedisAddr    string // empty keeps caches in memory
	JWTSecret    string `json:"-"`
	Operator     OperatorConfig
	Impact       ImpactBaseline
	CORS         CORSConfig

	// ProcessingDelay is a cosmetic pause applied by the intake endpoints
	ProcessingDelay time.Duration
	// StatsSchedule is the cron spec of the dashboard stats broadcast
	StatsSchedule string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after an optional .env file
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		StoreBackend: strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendMemory)),
		MongoURI:     getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnvOrDefault("MONGO_DB", "surakshaconnect"),
		RedisAddr:    trimRedisScheme(os.Getenv("REDIS_URI")),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", "suraksha-dev-secret-change-me"),
		Operator: OperatorConfig{
			Email:    getEnvOrDefault("OPERATOR_EMAIL", "demo@surakshaconnect.org"),
			Password: getEnvOrDefault("OPERATOR_PASSWORD", "demo123"),
			Name:     getEnvOrDefault("OPERATOR_NAME", "Demo Coordinator"),
		},
		Impact: ImpactBaseline{
			LivesSaved:        getIntOrDefault("IMPACT_LIVES_SAVED", 2847),
			PeopleHelped:      getIntOrDefault("IMPACT_PEOPLE_HELPED", 15230),
			ActiveVolunteers:  getIntOrDefault("IMPACT_ACTIVE_VOLUNTEERS", 1250),
			CommunitiesServed: getIntOrDefault("IMPACT_COMMUNITIES_SERVED", 89),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnvOrDefault("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
			AllowedHeaders: getEnvOrDefault("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
		ProcessingDelay: getDurationOrDefault("PROCESSING_DELAY", 0),
		StatsSchedule:   getEnvOrDefault("STATS_SCHEDULE", "@every 10s"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

// UseMongo reports whether requests are persisted in MongoDB
func (c *Config) UseMongo() bool {
	return c.StoreBackend == BackendMongo
}

// UseRedis reports whether the dashboard caches live in Redis
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}

// Remove redis:// prefix if present
func trimRedisScheme(addr string) string {
	return strings.TrimPrefix(addr, "redis://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return defaultValue
	}
	return n
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return defaultValue
	}
	return d
}
