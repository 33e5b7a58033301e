package core

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash represents a hex-encoded SHA-256 digest
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashString creates a new hash from a string
func HashString(s string) Hash {
	return NewHash([]byte(s))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals compares two hashes in constant time
func (h Hash) Equals(other Hash) bool {
	return subtle.ConstantTimeCompare([]byte(h), []byte(other)) == 1
}
