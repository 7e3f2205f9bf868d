package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Import pipeline
	ImportJobsTopic     string
	ImportRetryTopic    string
	ImportDLQTopic      string
	ShowEventsTopic     string
	ImportMaxRetries    int
	ImportRetryBackoff  time.Duration
	ImportWorkerSlots   int
	ImportFetchTimeout  time.Duration
	JobRetention        time.Duration
	JobCleanupInterval  time.Duration
	ProvidersConfigFile string

	// External providers
	MockProviderEnabled    bool
	YouTubeAPIKey          string
	YouTubeBaseURL         string
	YouTubeMaxResults      int
	VimeoClientID          string
	VimeoClientSecret      string
	VimeoBaseURL           string
	VimeoTokenURL          string
	ProviderRequestTimeout time.Duration

	// Auth
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "cms"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "cms123"),
		PostgresDB:       getEnv("POSTGRES_DB", "cms"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "cms-platform"),

		ImportJobsTopic:     getEnv("IMPORT_JOBS_TOPIC", "cms.import.jobs"),
		ImportRetryTopic:    getEnv("IMPORT_RETRY_TOPIC", "cms.import.retry"),
		ImportDLQTopic:      getEnv("IMPORT_DLQ_TOPIC", "cms.import.dlq"),
		ShowEventsTopic:     getEnv("SHOW_EVENTS_TOPIC", "cms.show.events"),
		ImportMaxRetries:    getIntEnv("IMPORT_MAX_RETRIES", 3),
		ImportRetryBackoff:  getDuration("IMPORT_RETRY_BACKOFF", 2*time.Minute),
		ImportWorkerSlots:   getIntEnv("IMPORT_WORKER_SLOTS", 3),
		ImportFetchTimeout:  getDuration("IMPORT_FETCH_TIMEOUT", 2*time.Minute),
		JobRetention:        getDuration("JOB_RETENTION", 24*time.Hour),
		JobCleanupInterval:  getDuration("JOB_CLEANUP_INTERVAL", time.Hour),
		ProvidersConfigFile: getEnv("PROVIDERS_CONFIG_FILE", ""),

		MockProviderEnabled:    getBoolEnv("MOCK_PROVIDER_ENABLED", true),
		YouTubeAPIKey:          getEnv("YOUTUBE_API_KEY", ""),
		YouTubeBaseURL:         getEnv("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeMaxResults:      getIntEnv("YOUTUBE_MAX_RESULTS", 50),
		VimeoClientID:          getEnv("VIMEO_CLIENT_ID", ""),
		VimeoClientSecret:      getEnv("VIMEO_CLIENT_SECRET", ""),
		VimeoBaseURL:           getEnv("VIMEO_BASE_URL", "https://api.vimeo.com"),
		VimeoTokenURL:          getEnv("VIMEO_TOKEN_URL", "https://api.vimeo.com/oauth/authorize/client"),
		ProviderRequestTimeout: getDuration("PROVIDER_REQUEST_TIMEOUT", 30*time.Second),

		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		JWTIssuer:   getEnv("JWT_ISSUER", "cms-platform"),
		JWTAudience: getEnv("JWT_AUDIENCE", "cms-api"),
		JWTTTL:      getDuration("JWT_TTL", 12*time.Hour),
	}
}

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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
