// Package cryptox hashes account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

// DeriveKey stretches password with salt. Parameters follow the argon2id
// recommendation for interactive logins.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// HashPassword derives a hash for password under a fresh random salt.
func HashPassword(password []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(saltSize)
	return DeriveKey(password, salt), salt
}

// VerifyPassword reports whether password matches hash under salt.
func VerifyPassword(password, salt, hash []byte) bool {
	if len(hash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(DeriveKey(password, salt), hash) == 1
}
