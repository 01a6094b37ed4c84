package helpers

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generate returns a new time-sortable identifier, used for posts
// and comments
func Generate() string {
	return ulid.Make().String()
}

// GenerateUser returns a new user identifier
func GenerateUser() string {
	return uuid.NewString()
}
