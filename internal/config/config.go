package config

import (
	"os"
	"strconv"
	"strings"
)

type PoultryServiceConfig struct {
	Port         string
	PostgresCfg  PostgresConfig
	RedisCfg     RedisConfig
	RabbitMQCfg  RabbitMQConfig
	MinioCfg     MinioConfig
	ModelArtsCfg ModelArtsConfig
	GeminiAPICfg GeminiAPIConfig
	AuthCfg      AuthConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
}

// ModelArtsConfig points at the external disease-inference endpoint.
type ModelArtsConfig struct {
	Endpoint       string
	AuthToken      string
	TimeoutSeconds int
}

type GeminiAPIConfig struct {
	APIKeys   []string
	FlashName string
}

type AuthConfig struct {
	JWTSecret    string
	SessionHours int
}

func New() *PoultryServiceConfig {
	return &PoultryServiceConfig{
		Port: getEnvOrDefault("PORT", "8085"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "poultry_service"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9407/"),
		},
		ModelArtsCfg: ModelArtsConfig{
			Endpoint:       getEnvOrDefault("MODELARTS_ENDPOINT", ""),
			AuthToken:      getEnvOrDefault("MODELARTS_AUTH_TOKEN", ""),
			TimeoutSeconds: getEnvOrDefaultInt("AI_TIMEOUT_SECONDS", 30),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKeys:   splitNonEmpty(os.Getenv("GEMINI_KEYS")),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
		},
		AuthCfg: AuthConfig{
			JWTSecret:    getEnvOrDefault("JWT_SECRET", ""),
			SessionHours: getEnvOrDefaultInt("SESSION_HOURS", 48),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitNonEmpty(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
