package utils

import "github.com/google/uuid"

// NewSessionToken returns an opaque session token. uuid.NewRandom reads
// from crypto/rand, so tokens are unguessable as well as unique.
func NewSessionToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
