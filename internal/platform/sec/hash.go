// Copyright (c) 2026 Keystone Identity. All rights reserved.

// Package sec provides cryptographic primitives for credential and session
// token handling.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token
// generation) from the domain logic. It is injected into the application
// layer via plain function calls; it holds no state.
package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// The embedded salt guarantees a different digest on every call for the
// same input.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version
// in constant time.
//
// # Fail Closed
//
// A malformed or truncated hash yields false, never an error that a caller
// could mistake for success.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
