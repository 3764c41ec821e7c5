package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store/drivers/memory"
	"github.com/loandesk/loandesk/pkg/jwtx"
)

const (
	localIssuer  = "loandesk-identity"
	localSubject = "local-gateway-subject-01"
)

var localAudience = []string{"loandesk"}

func newLocalGateway(t *testing.T) (*Local, *jwtx.Signer) {
	t.Helper()

	keys, err := jwtx.GenerateKeyPair()
	require.NoError(t, err)
	signer := &jwtx.Signer{Keys: keys}

	db := memory.NewStore()
	require.NoError(t, db.Users().CreateUser(context.Background(), domain.User{
		Subject: localSubject,
		Email:   "local@example.com",
	}))

	gw := NewLocal(jwtx.NewEdDSAVerifier(keys, localIssuer, localAudience), db.Users())
	return gw, signer
}

func mint(t *testing.T, signer *jwtx.Signer, subject, role string, ttl time.Duration, issuedAt time.Time) string {
	t.Helper()

	claims := jwtx.NewIdentityClaims(subject, "local@example.com", true, role,
		ttl, localIssuer, localAudience, issuedAt)
	raw, err := signer.Sign(claims)
	require.NoError(t, err)
	return raw
}

func TestLocalVerifyToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gw, signer := newLocalGateway(t)

	t.Run("valid token yields claims", func(t *testing.T) {
		raw := mint(t, signer, localSubject, "manager", time.Hour, time.Now().UTC())

		claims, err := gw.VerifyToken(ctx, raw)
		require.NoError(t, err)
		require.Equal(t, localSubject, claims.Subject)
		require.Equal(t, "manager", claims.Role)
		require.False(t, claims.ExpiresAt.IsZero())
		require.False(t, claims.AuthTime.IsZero())
	})

	t.Run("expired token", func(t *testing.T) {
		raw := mint(t, signer, localSubject, "user", time.Minute, time.Now().UTC().Add(-time.Hour))

		_, err := gw.VerifyToken(ctx, raw)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := gw.VerifyToken(ctx, "garbage")
		require.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("token for unknown subject", func(t *testing.T) {
		raw := mint(t, signer, "unknown-subject-00000001", "user", time.Hour, time.Now().UTC())

		_, err := gw.VerifyToken(ctx, raw)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong key is invalid", func(t *testing.T) {
		otherKeys, err := jwtx.GenerateKeyPair()
		require.NoError(t, err)
		raw := mint(t, &jwtx.Signer{Keys: otherKeys}, localSubject, "user", time.Hour, time.Now().UTC())

		_, err = gw.VerifyToken(ctx, raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestLocalDisabledUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	keys, err := jwtx.GenerateKeyPair()
	require.NoError(t, err)
	signer := &jwtx.Signer{Keys: keys}

	db := memory.NewStore()
	require.NoError(t, db.Users().CreateUser(ctx, domain.User{
		Subject:  localSubject,
		Disabled: true,
	}))
	gw := NewLocal(jwtx.NewEdDSAVerifier(keys, localIssuer, localAudience), db.Users())

	// A cryptographically valid token must still be refused once the
	// directory marks the subject disabled.
	raw := mint(t, signer, localSubject, "admin", time.Hour, time.Now().UTC())
	_, err = gw.VerifyToken(ctx, raw)
	require.ErrorIs(t, err, ErrUserDisabled)
}

func TestLocalDirectoryOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gw, _ := newLocalGateway(t)

	t.Run("get user", func(t *testing.T) {
		u, err := gw.GetUser(ctx, localSubject)
		require.NoError(t, err)
		require.Equal(t, "local@example.com", u.Email)

		_, err = gw.GetUser(ctx, "missing-subject-0000001")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("set custom claims round trips", func(t *testing.T) {
		err := gw.SetCustomClaims(ctx, localSubject, map[string]string{domain.RoleClaim: "officer"})
		require.NoError(t, err)

		u, err := gw.GetUser(ctx, localSubject)
		require.NoError(t, err)
		require.Equal(t, domain.RoleOfficer, u.EffectiveRole())

		err = gw.SetCustomClaims(ctx, "missing-subject-0000001", nil)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("list users", func(t *testing.T) {
		users, err := gw.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})
}
