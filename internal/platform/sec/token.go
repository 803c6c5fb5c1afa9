// Copyright (c) 2026 Carbongold. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// NewAccessToken generates an opaque random access token.
//
// Tokens gate unauthenticated access paths (pending attachment removal,
// share links). 16 random bytes rendered as 32 hex characters.
func NewAccessToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// OS entropy failure is an unrecoverable system-level error.
		panic("sec: failed to read random source: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// HashToken hashes an access token with bcrypt for at-rest storage.
//
// A leaked database dump must not let an attacker replay the single-use
// tokens handed out to uploaders.
func HashToken(plainToken string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash token: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckTokenHash compares a plain-text token with its hashed version.
func CheckTokenHash(plainToken, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainToken))
	return err == nil
}
