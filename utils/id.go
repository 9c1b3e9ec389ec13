package utils

import (
	"encoding/base64"
	"regexp"

	"github.com/google/uuid"
)

var imageIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NewImageID returns 122 random bits from a v4 UUID in unpadded base64url,
// a 22 character string that needs no escaping in keys or URL paths.
func NewImageID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// IsValidImageID reports whether id could have been produced by NewImageID
// or any other URL-safe generator.
func IsValidImageID(id string) bool {
	return imageIDPattern.MatchString(id)
}
