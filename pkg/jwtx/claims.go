// Package jwtx implements the token format the local identity gateway
// issues and verifies: EdDSA-signed JWTs carrying the subject's role and
// email claims.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default lifetime for identity tokens. Kept short;
// clients are expected to re-authenticate against the identity provider.
const DefaultTokenTTL = time.Hour

// Claims are the identity-token claims. The custom fields mirror what the
// identity provider stores per subject: the role claim drives every
// authorization decision downstream.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the subject's role claim. Absent when no role was ever
	// assigned; consumers fall back to the lowest-privilege role.
	Role string `json:"role,omitempty"`

	// Email of the subject, if known.
	Email string `json:"email,omitempty"`

	// EmailVerified reports whether the email has been verified.
	EmailVerified bool `json:"email_verified,omitempty"`

	// AuthTime is when the subject last authenticated interactively.
	AuthTime *jwt.NumericDate `json:"auth_time,omitempty"`
}

// NewIdentityClaims builds minimally-correct claims for a subject.
func NewIdentityClaims(
	subject, email string,
	emailVerified bool,
	role string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:          role,
		Email:         email,
		EmailVerified: emailVerified,
		AuthTime:      jwt.NewNumericDate(now),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when an expected value is configured.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
