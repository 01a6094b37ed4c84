package helpers

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/omkar2711/mediaConnect-b7/model"
)

// LoadConfig reads the .env file, if any, then the environment
func LoadConfig() model.Config {
	// Get key-value in .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	config := model.Config{
		Port:            getEnv("PORT", "3000"),
		Store:           os.Getenv("STORE"),
		GraphURL:        os.Getenv("GRAPH_URL"),
		GraphUsername:   os.Getenv("GRAPH_USERNAME"),
		GraphPassword:   os.Getenv("GRAPH_PASSWORD"),
		MemURL:          os.Getenv("MEM_URL"),
		NatsURL:         os.Getenv("NATS_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		ZipkinAddress:   os.Getenv("ZIPKIN_ADDRESS"),
		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:       getEnv("JWT_ISSUER", "mediaconnect"),
		TokenTTL:        7 * 24 * time.Hour,
		AuthRateLimit:   getInt("AUTH_RATE_LIMIT", 20),
		TrustProxy:      getBool("TRUST_PROXY"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		SuggestionLimit: getInt("SUGGESTION_LIMIT", 5),
	}

	if config.Store == "" {
		config.Store = "graph"
		if config.GraphURL == "" {
			config.Store = "memory"
		}
	}

	if len(config.JWTSecret) == 0 {
		log.Println("JWT_SECRET is not set, using an insecure default")
		config.JWTSecret = []byte("secret")
	}

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}
