package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// RawKeyPrefix is the leading fragment of every raw credential.
	RawKeyPrefix = "cp_live_"
	// rawKeyHexLen is the number of hex characters of random material.
	rawKeyHexLen = 40
	// DisplayPrefixLen is how much of the raw key is kept for display.
	DisplayPrefixLen = 12
)

var randomRead = rand.Read

// GenerateAPIKey mints a fresh raw credential. The raw value is returned
// to the caller exactly once and never persisted; only its hash and a
// short display prefix survive.
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, rawKeyHexLen/2)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return RawKeyPrefix + hex.EncodeToString(bytes), nil
}

// HashKey computes the content hash stored for a raw credential.
// The same function is used at mint time and at lookup time.
func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// DisplayPrefix returns the short non-secret leading fragment of a raw
// credential, suitable for key listings.
func DisplayPrefix(rawKey string) string {
	if len(rawKey) <= DisplayPrefixLen {
		return rawKey
	}
	return rawKey[:DisplayPrefixLen]
}
