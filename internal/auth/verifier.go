package auth

import "fmt"

// AdminVerifier checks presented keys against the configured admin hash.
type AdminVerifier struct {
	hash string
}

// NewAdminVerifier returns a verifier for encodedHash.
// An empty hash yields a verifier that reports Enabled() == false.
func NewAdminVerifier(encodedHash string) (*AdminVerifier, error) {
	if encodedHash != "" {
		if err := CheckHash(encodedHash); err != nil {
			return nil, fmt.Errorf("admin key hash: %w", err)
		}
	}
	return &AdminVerifier{hash: encodedHash}, nil
}

// Enabled reports whether an admin key is configured.
func (v *AdminVerifier) Enabled() bool {
	return v != nil && v.hash != ""
}

// Verify reports whether key is the admin key.
// Keys that fail the format check are rejected without hashing.
func (v *AdminVerifier) Verify(key string) bool {
	if !v.Enabled() {
		return false
	}
	if _, err := ParseKey(key); err != nil {
		return false
	}
	ok, err := VerifyKey(key, v.hash)
	return err == nil && ok
}
