package common

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a new 24 character hex identifier. Identifiers created later sort
// after earlier ones.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a 24 character hex identifier.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// ParseID trims and lower-cases id, returning ErrMissingID for an empty value and
// ErrInvalidID when it is not a 24 character hex string.
func ParseID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingID
	}

	if !ValidID(id) {
		return "", ErrInvalidID
	}

	return strings.ToLower(id), nil
}
