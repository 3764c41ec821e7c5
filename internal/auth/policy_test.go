package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/internal/domain"
)

func TestPolicyEvaluateRoles(t *testing.T) {
	t.Parallel()

	officer := Principal{Subject: "subject-officer-00000001", Role: domain.RoleOfficer}

	t.Run("allowed role grants", func(t *testing.T) {
		policy := Policy{AllowedRoles: []domain.Role{domain.RoleOfficer, domain.RoleManager}}
		req := httptest.NewRequest(http.MethodGet, "/loans", nil)

		d := policy.Evaluate(req, officer)
		require.True(t, d.Allowed)
		require.Equal(t, "role", d.Granted)
	})

	t.Run("role outside the set denies", func(t *testing.T) {
		policy := Policy{AllowedRoles: []domain.Role{domain.RoleManager}, ResourceType: "loan approval"}
		req := httptest.NewRequest(http.MethodPut, "/loans/1/approve", nil)

		d := policy.Evaluate(req, officer)
		require.False(t, d.Allowed)
		require.Contains(t, d.Reason, "loan approval")
	})

	t.Run("empty role set grants nothing by itself", func(t *testing.T) {
		policy := Policy{}
		req := httptest.NewRequest(http.MethodGet, "/loans", nil)

		d := policy.Evaluate(req, Principal{Subject: "s", Role: domain.RoleAdmin})
		require.False(t, d.Allowed)
	})
}

func TestPolicyEvaluateOwnership(t *testing.T) {
	t.Parallel()

	me := Principal{Subject: "owner-subject-000000001", Role: domain.RoleUser}

	t.Run("matching path value grants", func(t *testing.T) {
		policy := Policy{CheckOwnership: true}
		req := httptest.NewRequest(http.MethodGet, "/users/"+me.Subject, nil)
		req.SetPathValue("uid", me.Subject)

		d := policy.Evaluate(req, me)
		require.True(t, d.Allowed)
		require.Equal(t, "ownership", d.Granted)
	})

	t.Run("mismatching path value denies", func(t *testing.T) {
		policy := Policy{CheckOwnership: true}
		req := httptest.NewRequest(http.MethodGet, "/users/other", nil)
		req.SetPathValue("uid", "someone-else-subject-01")

		d := policy.Evaluate(req, me)
		require.False(t, d.Allowed)
	})

	t.Run("owner field in body grants and body survives", func(t *testing.T) {
		policy := Policy{CheckOwnership: true}
		body := `{"uid":"` + me.Subject + `","note":"hi"}`
		req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(body))

		d := policy.Evaluate(req, me)
		require.True(t, d.Allowed)

		// The handler must still be able to read the full body.
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.JSONEq(t, body, string(raw))
	})

	t.Run("owner field in query grants", func(t *testing.T) {
		policy := Policy{CheckOwnership: true}
		req := httptest.NewRequest(http.MethodGet, "/things?uid="+me.Subject, nil)

		d := policy.Evaluate(req, me)
		require.True(t, d.Allowed)
	})

	t.Run("custom owner field name is honoured", func(t *testing.T) {
		policy := Policy{CheckOwnership: true, OwnerIDField: "ownerId"}
		req := httptest.NewRequest(http.MethodGet, "/things?ownerId="+me.Subject, nil)

		d := policy.Evaluate(req, me)
		require.True(t, d.Allowed)
	})

	// Pins the permissive default: when no owner field can be found on the
	// request at all, the ownership signal grants rather than denies.
	t.Run("absent owner field grants", func(t *testing.T) {
		policy := Policy{CheckOwnership: true}
		req := httptest.NewRequest(http.MethodGet, "/things", nil)

		d := policy.Evaluate(req, me)
		require.True(t, d.Allowed)
		require.Equal(t, "ownership", d.Granted)
	})

	t.Run("disabled ownership never grants", func(t *testing.T) {
		policy := Policy{AllowedRoles: []domain.Role{domain.RoleAdmin}}
		req := httptest.NewRequest(http.MethodGet, "/things?uid="+me.Subject, nil)

		d := policy.Evaluate(req, me)
		require.False(t, d.Allowed)
	})
}

func TestPolicyEvaluateCustomAndOr(t *testing.T) {
	t.Parallel()

	user := Principal{Subject: "plain-user-subject-0001", Role: domain.RoleUser}

	t.Run("custom predicate grants", func(t *testing.T) {
		policy := Policy{
			Custom: func(r *http.Request, p Principal) bool {
				return r.Header.Get("X-Special") == "yes"
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/things", nil)
		req.Header.Set("X-Special", "yes")

		d := policy.Evaluate(req, user)
		require.True(t, d.Allowed)
		require.Equal(t, "custom", d.Granted)
	})

	t.Run("signals combine with OR", func(t *testing.T) {
		// Role check fails, ownership passes.
		policy := Policy{
			AllowedRoles:   []domain.Role{domain.RoleAdmin},
			CheckOwnership: true,
		}
		req := httptest.NewRequest(http.MethodGet, "/things?uid="+user.Subject, nil)

		d := policy.Evaluate(req, user)
		require.True(t, d.Allowed)
		require.Equal(t, "ownership", d.Granted)
	})

	t.Run("all configured signals failing denies", func(t *testing.T) {
		policy := Policy{
			AllowedRoles:   []domain.Role{domain.RoleAdmin},
			CheckOwnership: true,
			Custom:         func(*http.Request, Principal) bool { return false },
			ResourceType:   "report",
		}
		req := httptest.NewRequest(http.MethodGet, "/things?uid=not-the-caller-subject1", nil)

		d := policy.Evaluate(req, user)
		require.False(t, d.Allowed)
		require.Contains(t, d.Reason, "report")
		require.Contains(t, d.Reason, "role")
		require.Contains(t, d.Reason, "ownership")
		require.Contains(t, d.Reason, "custom")
	})
}
