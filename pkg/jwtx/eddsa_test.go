package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testIssuer  = "loandesk-identity"
	testSubject = "token-test-subject-00001"
)

var testAudience = []string{"loandesk"}

func newSignerVerifier(t *testing.T) (*Signer, Verifier) {
	t.Helper()

	keys, err := GenerateKeyPair()
	require.NoError(t, err)
	return &Signer{Keys: keys}, NewEdDSAVerifier(keys, testIssuer, testAudience)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerVerifier(t)

	now := time.Now().UTC()
	claims := NewIdentityClaims(testSubject, "t@example.com", true, "officer",
		DefaultTokenTTL, testIssuer, testAudience, now)

	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, testSubject, got.Subject)
	require.Equal(t, "officer", got.Role)
	require.Equal(t, "t@example.com", got.Email)
	require.True(t, got.EmailVerified)
	require.NotNil(t, got.AuthTime)
	require.NotEmpty(t, got.ID)
}

func TestVerifyFailures(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerVerifier(t)
	now := time.Now().UTC()

	sign := func(claims Claims) string {
		raw, err := signer.Sign(claims)
		require.NoError(t, err)
		return raw
	}

	t.Run("expired token", func(t *testing.T) {
		raw := sign(NewIdentityClaims(testSubject, "", false, "",
			time.Minute, testIssuer, testAudience, now.Add(-time.Hour)))

		_, err := verifier.Verify(raw)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("not yet valid token", func(t *testing.T) {
		raw := sign(NewIdentityClaims(testSubject, "", false, "",
			time.Hour, testIssuer, testAudience, now.Add(time.Hour)))

		_, err := verifier.Verify(raw)
		require.ErrorIs(t, err, ErrNotYetValid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		raw := sign(NewIdentityClaims(testSubject, "", false, "",
			time.Hour, "someone-else", testAudience, now))

		_, err := verifier.Verify(raw)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		raw := sign(NewIdentityClaims(testSubject, "", false, "",
			time.Hour, testIssuer, []string{"other-service"}, now))

		_, err := verifier.Verify(raw)
		require.ErrorIs(t, err, ErrAudience)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherKeys, err := GenerateKeyPair()
		require.NoError(t, err)
		otherSigner := &Signer{Keys: otherKeys}

		raw, err := otherSigner.Sign(NewIdentityClaims(testSubject, "", false, "",
			time.Hour, testIssuer, testAudience, now))
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrMalformed)

		_, err = verifier.Verify("")
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestMintDevToken(t *testing.T) {
	t.Parallel()

	signer, verifier := newSignerVerifier(t)

	raw, err := MintDevToken(signer, testSubject, "dev@example.com", "admin",
		testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	claims, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, testSubject, claims.Subject)
}
