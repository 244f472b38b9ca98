// Package password hashes new credentials with bcrypt and verifies the
// older encodings still found in hand-maintained user files.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor for new hashes. Tests lower it.
var Cost = bcrypt.DefaultCost

// Hash returns a salted bcrypt hash of plain.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compares plain against stored, which may be a bcrypt hash, an
// unsalted SHA-256 hex digest or, for legacy rows, the plaintext itself.
func Verify(stored, plain string) bool {
	switch {
	case stored == "":
		return false
	case isBcrypt(stored):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	case isSHA256Hex(stored):
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(SHA256(plain))) == 1
	default:
		return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
	}
}

// IsLegacy reports whether stored predates bcrypt hashing.
func IsLegacy(stored string) bool {
	return !isBcrypt(stored)
}

// SHA256 returns the hex digest used by older credential files.
func SHA256(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func isSHA256Hex(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
