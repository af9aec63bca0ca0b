// Copyright (c) 2026 Keystone Identity. All rights reserved.

package sec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Session Tokens

// GenerateSecureToken returns a URL-safe random token of byteLength entropy bytes.
//
// Used for the opaque session identifier handed to clients. 32 bytes gives
// 256 bits of entropy, making the token unguessable in practice.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken derives the server-side lookup key for a client-held token.
//
// # Tamper Evidence
//
// The HMAC is keyed with the process-wide session secret, so a forged or
// bit-flipped token can never resolve to a stored session. Only the hash is
// persisted; a storage dump does not expose usable tokens.
func HashToken(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
