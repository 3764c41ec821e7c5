package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyPair holds an Ed25519 signing key and its identifier.
type KeyPair struct {
	Kid     string
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateKeyPair creates a fresh Ed25519 key pair with a random kid.
// Used in dev mode where tokens only need to survive the process.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate ed25519 key: %w", err)
	}

	var kid [8]byte
	_, _ = rand.Read(kid[:])

	return &KeyPair{
		Kid:     base64.RawURLEncoding.EncodeToString(kid[:]),
		Public:  pub,
		Private: priv,
	}, nil
}

// LoadKeyPair reads a base64-encoded Ed25519 seed from path. The seed file
// is what operators distribute so tokens stay valid across restarts.
func LoadKeyPair(path string) (*KeyPair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jwtx: read key file: %w", err)
	}

	seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("jwtx: decode key seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("jwtx: key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{
		Kid:     "file",
		Public:  priv.Public().(ed25519.PublicKey),
		Private: priv,
	}, nil
}

// Signer mints EdDSA-signed identity tokens.
type Signer struct {
	Keys *KeyPair
}

// Sign produces a compact JWT for the given claims.
func (s *Signer) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = s.Keys.Kid

	signed, err := token.SignedString(s.Keys.Private)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// EdDSAVerifier verifies EdDSA tokens against a single public key and
// enforces issuer/audience expectations.
type EdDSAVerifier struct {
	Public   ed25519.PublicKey
	Issuer   string
	Audience []string
}

// NewEdDSAVerifier returns a Verifier for the key pair's public half.
func NewEdDSAVerifier(keys *KeyPair, issuer string, audience []string) Verifier {
	return &EdDSAVerifier{Public: keys.Public, Issuer: issuer, Audience: audience}
}

// Verify parses and validates the token, returning its claims.
func (v *EdDSAVerifier) Verify(raw string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return v.Public, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.ValidateIssuer(v.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.Audience); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}

// MintDevToken signs a short-lived token for local development and tests.
func MintDevToken(signer *Signer, subject, email, role, issuer string, audience []string, ttl time.Duration) (string, error) {
	claims := NewIdentityClaims(subject, email, true, role, ttl, issuer, audience, time.Now().UTC())
	return signer.Sign(claims)
}
