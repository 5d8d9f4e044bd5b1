package main

import (
	"fmt"
	"os"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port        string
	Environment string
	ClientURL   string

	PostgresHost     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresPort     string
	PostgresSSLMode  string

	MongoURI    string
	MongoDBName string

	RedisURL string

	AccessTokenSecret  string
	RefreshTokenSecret string

	StripeSecretKey string

	S3Bucket  string
	AWSRegion string
}

// LoadConfig reads the configuration from the environment. Secrets and
// connection strings have no defaults; missing ones fail startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:5173"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getEnv("POSTGRES_DB", "storefront"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		S3Bucket:  os.Getenv("S3_BUCKET"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
	}

	required := map[string]string{
		"POSTGRES_USER":        cfg.PostgresUser,
		"POSTGRES_PASSWORD":    cfg.PostgresPassword,
		"ACCESS_TOKEN_SECRET":  cfg.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": cfg.RefreshTokenSecret,
		"STRIPE_SECRET_KEY":    cfg.StripeSecretKey,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}
	return cfg, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
