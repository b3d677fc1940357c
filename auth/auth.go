// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidID       = errors.New("invalid id format")
)

// NewResponseID creates a random opaque ID for a survey response
func NewResponseID() string {
	return uuid.NewString()
}

// NewEmailID creates a random ID for an email record, prefixed so it is
// distinguishable from response IDs in logs
func NewEmailID() string {
	return "email_" + uuid.NewString()
}

// ValidateID checks that a client-supplied ID is usable as a record key
func ValidateID(id string) error {
	if id == "" || len(id) > 128 {
		return fmt.Errorf("%w: length must be 1-128", ErrInvalidID)
	}
	for _, c := range id {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return fmt.Errorf("%w: unexpected character %q", ErrInvalidID, c)
		}
	}
	return nil
}

// ValidateAdminKey checks the provided key against the configured one.
// An empty configured key disables the check.
func ValidateAdminKey(provided, configured string) error {
	if configured == "" {
		return nil
	}
	if !hmac.Equal([]byte(provided), []byte(configured)) {
		return ErrInvalidAdminKey
	}
	return nil
}
