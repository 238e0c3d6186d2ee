// Package crypto provides the Argon2id passphrase derivation used by the
// unlock gate. Only the salt and derived key are ever stored.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// keyLen is the derived key length in bytes.
	keyLen = 32
	// saltLen is the Argon2id salt length in bytes.
	saltLen = 32

	// Argon2id parameters.
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// DeriveKeyFromPassphrase derives a 256-bit key from a passphrase using Argon2id.
// Returns the derived key and the salt used (32 bytes random salt).
func DeriveKeyFromPassphrase(passphrase string) (key, salt []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("random salt: %w", err)
	}

	key = argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	return key, salt, nil
}

// DeriveKeyFromPassphraseWithSalt derives a key using a known salt.
func DeriveKeyFromPassphraseWithSalt(passphrase string, salt []byte) ([]byte, error) {
	if len(salt) != saltLen {
		return nil, fmt.Errorf("salt must be %d bytes", saltLen)
	}
	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	return key, nil
}

// VerifyPassphrase re-derives the key for passphrase and compares it to
// want in constant time.
func VerifyPassphrase(passphrase string, salt, want []byte) (bool, error) {
	got, err := DeriveKeyFromPassphraseWithSalt(passphrase, salt)
	if err != nil {
		return false, err
	}
	if len(want) != keyLen {
		return false, fmt.Errorf("key must be %d bytes", keyLen)
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
