package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var ErrInvalidHash = errors.New("invalid password hash format")

func HashPass(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("unable to create salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	saltBase64 := base64.StdEncoding.EncodeToString(salt)
	hashBase64 := base64.StdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%s.%s", saltBase64, hashBase64), nil
}

// ComparePass reports whether password matches a "salt.hash" argon2id string produced by HashPass.
func ComparePass(password, hashPassword string) (bool, error) {
	parts := strings.Split(hashPassword, ".")
	if len(parts) != 2 {
		return false, ErrInvalidHash
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, ErrInvalidHash
	}
	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(hash) == 0 {
		return false, ErrInvalidHash
	}

	candidate := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}
