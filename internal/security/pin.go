package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// pinSaltBytes gives 256 bits of salt entropy per credential
const pinSaltBytes = 32

// NewPinSalt generates a fresh random salt, hex encoded. A new salt is issued
// on every PIN set and never reused.
func NewPinSalt() (string, error) {
	buf := make([]byte, pinSaltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPin computes the one-way digest stored for a child PIN: SHA-256 over
// the PIN concatenated with the salt, hex encoded.
func HashPin(pin, salt string) string {
	sum := sha256.Sum256([]byte(pin + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPinHash recomputes the digest for a candidate PIN and compares it to
// the stored hash in constant time.
func VerifyPinHash(candidate, salt, storedHash string) bool {
	computed := HashPin(candidate, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
