package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/loandesk/loandesk/internal/domain"
)

// Policy declares who may perform an operation. A request is allowed when
// ANY configured signal grants it:
//
//   - the principal's role is in AllowedRoles,
//   - ownership: CheckOwnership is set and the request's owner field
//     matches the principal's subject, or
//   - Custom returns true.
//
// Unset signals never grant. Ownership grants when the owner field cannot
// be found on the request at all: an absent field means the operation is
// not about a specific subject, so ownership has nothing to refuse.
type Policy struct {
	// AllowedRoles grants by role membership.
	AllowedRoles []domain.Role

	// CheckOwnership grants when the request's OwnerIDField equals the
	// principal's subject.
	CheckOwnership bool

	// OwnerIDField names the path variable, body field or query parameter
	// holding the owning subject. Defaults to "uid".
	OwnerIDField string

	// Custom is an arbitrary predicate over the request and principal.
	Custom func(r *http.Request, p Principal) bool

	// ResourceType names what is being protected, for deny messages and
	// logs. Defaults to "resource".
	ResourceType string
}

// Decision is the outcome of evaluating a Policy.
type Decision struct {
	Allowed bool

	// Granted names the signal that allowed the request: "role",
	// "ownership" or "custom". Empty when denied.
	Granted string

	// Reason is a caller-safe denial message. Empty when allowed.
	Reason string
}

// Evaluate checks the policy's signals in order and returns the first
// grant, or a denial naming the protected resource.
func (p Policy) Evaluate(r *http.Request, principal Principal) Decision {
	if p.roleMatch(principal) {
		return Decision{Allowed: true, Granted: "role"}
	}
	if p.CheckOwnership && p.ownershipMatch(r, principal) {
		return Decision{Allowed: true, Granted: "ownership"}
	}
	if p.Custom != nil && p.Custom(r, principal) {
		return Decision{Allowed: true, Granted: "custom"}
	}

	resource := p.ResourceType
	if resource == "" {
		resource = "resource"
	}
	var checked []string
	if len(p.AllowedRoles) > 0 {
		checked = append(checked, "role")
	}
	if p.CheckOwnership {
		checked = append(checked, "ownership")
	}
	if p.Custom != nil {
		checked = append(checked, "custom")
	}
	if len(checked) == 0 {
		checked = append(checked, "none configured")
	}
	return Decision{
		Reason: fmt.Sprintf("Access denied. Insufficient permissions to access this %s (checked: %s).",
			resource, strings.Join(checked, ", ")),
	}
}

func (p Policy) roleMatch(principal Principal) bool {
	for _, role := range p.AllowedRoles {
		if principal.Role == role {
			return true
		}
	}
	return false
}

func (p Policy) ownershipMatch(r *http.Request, principal Principal) bool {
	field := p.OwnerIDField
	if field == "" {
		field = "uid"
	}

	owner, found := ownerIDFromRequest(r, field)
	if !found {
		return true
	}
	return owner == principal.Subject
}

// ownerIDFromRequest looks for the owner field in the route path, then the
// JSON body, then the query string. The body is restored so the handler
// can still decode it.
func ownerIDFromRequest(r *http.Request, field string) (string, bool) {
	if v := r.PathValue(field); v != "" {
		return v, true
	}

	if v, ok := ownerIDFromBody(r, field); ok {
		return v, true
	}

	if v := r.URL.Query().Get(field); v != "" {
		return v, true
	}
	return "", false
}

func ownerIDFromBody(r *http.Request, field string) (string, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", false
	}

	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return "", false
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}
	rawField, ok := body[field]
	if !ok {
		return "", false
	}

	var v string
	if err := json.Unmarshal(rawField, &v); err != nil {
		return "", false
	}
	return v, true
}
