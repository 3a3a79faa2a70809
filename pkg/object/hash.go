package object

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Digest computes the SHA-1 of framed object bytes and returns it as a
// lowercase hex-encoded Hash.
func Digest(framed []byte) Hash {
	sum := sha1.Sum(framed)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the hash of the envelope "type len\0content", the same
// name Git gives the object.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	h.Write(frameHeader(objType, len(data)))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// ParseHash validates a full hex object name and returns it lowercased.
func ParseHash(s string) (Hash, error) {
	s = strings.ToLower(s)
	if !isHex(s, HashHexSize) {
		return "", &NotFoundError{Name: s}
	}
	return Hash(s), nil
}

// hashFromRaw renders a 20-byte binary digest.
func hashFromRaw(raw []byte) Hash {
	return Hash(hex.EncodeToString(raw))
}

// raw returns the 20-byte binary digest of h.
func (h Hash) raw() ([]byte, error) {
	if !isHex(string(h), HashHexSize) {
		return nil, malformed("invalid object name %q", string(h))
	}
	return hex.DecodeString(string(h))
}

// isHex reports whether s is exactly n lowercase hex characters.
func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
