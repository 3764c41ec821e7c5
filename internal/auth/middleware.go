package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/loandesk/loandesk/internal/identity"
	"github.com/loandesk/loandesk/pkg/api"
	"github.com/loandesk/loandesk/pkg/httpx"
	"github.com/loandesk/loandesk/pkg/slogx"
)

// Authenticate verifies the request's bearer token against the identity
// gateway and attaches the resulting Principal to the context. Failures
// are classified: expired, malformed and unknown-subject tokens are 401,
// a disabled account is 403.
func Authenticate(gw identity.Gateway) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				api.WriteError(w, api.Unauthorized("Access denied. No authentication token provided."))
				return
			}

			claims, err := gw.VerifyToken(r.Context(), token)
			if err != nil {
				api.WriteError(w, classifyVerifyError(err))
				return
			}

			p := NewPrincipal(claims)
			ctx := WithPrincipal(r.Context(), p)

			log := slogx.FromContext(ctx).With("subject", p.Subject, "role", p.Role)
			ctx = slogx.WithContext(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize evaluates the policy against the authenticated principal.
// Must run after Authenticate.
func Authorize(policy Policy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				api.WriteError(w, api.Unauthorized("Access denied. No authentication token provided."))
				return
			}

			decision := policy.Evaluate(r, p)
			if !decision.Allowed {
				slogx.FromContext(r.Context()).Warn("authorization denied",
					"resource", policy.ResourceType,
					"role", p.Role,
				)
				api.WriteError(w, api.Forbidden("%s", decision.Reason))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, identity.ErrTokenExpired):
		return api.Unauthorized("Authentication token has expired. Please log in again.")
	case errors.Is(err, identity.ErrTokenMalformed), errors.Is(err, identity.ErrTokenInvalid):
		return api.Unauthorized("Invalid authentication token.")
	case errors.Is(err, identity.ErrUserDisabled):
		return api.Forbidden("User account has been disabled.")
	case errors.Is(err, identity.ErrUserNotFound):
		return api.Unauthorized("User not found.")
	default:
		return api.Unauthorized("Authentication failed.")
	}
}
