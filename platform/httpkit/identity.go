// Package httpkit provides HTTP identity utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashClientIP returns a salted SHA-256 hex digest of a client IP, or nil for
// an empty IP. Conversations store the hash, never the raw address.
func HashClientIP(salt, ip string) *string {
	if ip == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(salt + ":" + ip))
	digest := hex.EncodeToString(sum[:])
	return &digest
}
