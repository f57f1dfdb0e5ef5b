package config

import (
	"os"
	"strings"
)

type AppConfig struct {
	HTTPAddress  string
	KafkaBrokers []string
	RedisAddr    string
	RedisPass    string

	MediaBucket        string
	GCSCredentialsFile string

	JWTPublicKeyPath string
	JWTIssuer        string
	JWTAudience      string
}

func Load() AppConfig {
	return AppConfig{
		HTTPAddress:  getEnv("HTTP_ADDRESS", ":8080"),
		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", []string{"kafka:9092"}),
		RedisAddr:    getEnv("REDIS_ADDR", "redis:6379"),
		RedisPass:    getEnv("REDIS_PASS", ""),

		MediaBucket:        getEnv("MEDIA_BUCKET", "lifescribe-media"),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),

		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", "/etc/rtbf/jwt_pub.pem"),
		JWTIssuer:        getEnv("JWT_ISSUER", "lifescribe"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "lifescribe-app"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
