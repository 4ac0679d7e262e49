// backend/pkg/utils/hash.go
package utils

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ProofFingerprint derives the stable replay-detection key for a raw
// payment proof. The fingerprint covers the exact header bytes, so two
// submissions of the same proof always collide.
func ProofFingerprint(rawProof string) string {
	sum := sha256.Sum256([]byte(rawProof))
	return hex.EncodeToString(sum[:])
}

// MD5Hash generates MD5 hash of input string
func MD5Hash(input string) string {
	hash := md5.Sum([]byte(input))
	return hex.EncodeToString(hash[:])
}

// GenerateSessionID generates a session ID based on input string
func GenerateSessionID(input string) string {
	// Changes every hour
	hash := md5.Sum([]byte(input + fmt.Sprintf("%d", time.Now().Unix()/3600)))
	return hex.EncodeToString(hash[:])[:16]
}

// GenerateRandomID generates a random ID
func GenerateRandomID(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}
