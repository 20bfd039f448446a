package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// HashPassword derives an argon2id hash of password. The salt is the node UUID
// plus username, which makes the hash reproducible on the same node so the
// copy kept in the remote store can be checked at login.
func HashPassword(password []byte, salt string) []byte {
	return argon2.IDKey(password, []byte(salt), 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password hashes to expected, in constant time.
func VerifyPassword(password []byte, salt string, expected []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
