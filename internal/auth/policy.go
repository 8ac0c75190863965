// Package auth implements the access gate: an optional shared-secret
// bearer check and the actions-enabled switch for mutating endpoints.
package auth

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated means no usable bearer token was presented.
	ErrUnauthenticated = errors.New("missing bearer token")

	// ErrForbidden means a token was presented but does not match.
	ErrForbidden = errors.New("invalid token")
)

// Policy decides whether a request's Authorization header admits it.
// There are exactly two variants: Disabled and SharedSecret.
type Policy interface {
	// Check inspects the raw Authorization header value.
	Check(authorization string) error
}

// Disabled admits every request. Chosen when no secret is configured.
type Disabled struct{}

func (Disabled) Check(string) error { return nil }

// SharedSecret requires a bearer token byte-for-byte equal to the
// configured secret. No signatures, no expiry, no claims.
type SharedSecret struct {
	secret string
}

// NewSharedSecret builds the shared-secret variant.
func NewSharedSecret(secret string) SharedSecret {
	return SharedSecret{secret: secret}
}

func (p SharedSecret) Check(authorization string) error {
	if authorization == "" {
		return ErrUnauthenticated
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ErrUnauthenticated
	}

	if parts[1] != p.secret {
		return ErrForbidden
	}

	return nil
}

// PolicyFor picks the variant for a configured secret: empty disables
// authentication entirely.
func PolicyFor(secret string) Policy {
	if secret == "" {
		return Disabled{}
	}
	return NewSharedSecret(secret)
}
