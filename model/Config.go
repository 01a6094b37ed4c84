package model

import "time"

// Config holds every setting read from the environment
type Config struct {
	Port string

	Store         string
	GraphURL      string
	GraphUsername string
	GraphPassword string

	MemURL        string
	NatsURL       string
	RedisURL      string
	ZipkinAddress string

	JWTSecret []byte
	JWTIssuer string
	TokenTTL  time.Duration

	AuthRateLimit   int
	TrustProxy      bool
	RequestTimeout  time.Duration
	SuggestionLimit int
}
