package utils

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns an argon2id hash of plain using the library defaults.
func HashPassword(plain string) (string, error) {
	return argon2id.CreateHash(plain, argon2id.DefaultParams)
}

// VerifyPassword compares plain against a stored hash. Accounts imported
// before the switch to argon2id still carry bcrypt hashes; those verify
// through bcrypt and report needsRehash so the caller can upgrade them.
func VerifyPassword(hash, plain string) (ok, needsRehash bool, err error) {
	if IsLegacyHash(hash) {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, false, nil
		}
		if err != nil {
			return false, false, err
		}
		return true, true, nil
	}
	ok, err = argon2id.ComparePasswordAndHash(plain, hash)
	return ok, false, err
}

// IsLegacyHash reports whether hash is a bcrypt hash.
func IsLegacyHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
