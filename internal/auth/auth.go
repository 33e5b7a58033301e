package auth

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"clientportal/domain/core"
)

// RandomSixDigit returns a zero-padded six digit one-time code
func RandomSixDigit() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	n := binary.BigEndian.Uint32(buf[:]) % 1_000_000
	return fmt.Sprintf("%06d", n), nil
}

// HashCode returns the hex SHA-256 digest of a one-time code. Codes are
// stored only in hashed form.
func HashCode(code string) string {
	return core.HashString(code).String()
}

// VerifyCode compares a submitted code against a stored hash in constant time
func VerifyCode(code, storedHash string) bool {
	return core.HashString(code).Equals(core.Hash(storedHash))
}

// NewSessionToken returns an opaque 32-character hex session token
func NewSessionToken() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// HashUserAgent returns the hex SHA-256 digest of a user agent string for
// audit storage; the raw value is never persisted.
func HashUserAgent(ua string) string {
	return core.HashString(ua).String()
}
