package http

import (
	"time"

	"github.com/loandesk/loandesk/internal/domain"
)

// SubmitLoanRequest is the body for POST /loans. Both fields are optional;
// a bare {} submits an empty application.
type SubmitLoanRequest struct {
	ApplicantName string  `json:"applicantName"`
	Amount        float64 `json:"amount"`
}

// SetRoleRequest is the body for PUT /admin/users/{uid}/role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// LoanResponse is the wire shape of a loan application.
type LoanResponse struct {
	ID            int64      `json:"id"`
	ApplicantName string     `json:"applicantName"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	SubmittedBy   string     `json:"submittedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	ReviewedBy    string     `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	ApprovedBy    string     `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
}

func newLoanResponse(l domain.Loan) LoanResponse {
	return LoanResponse{
		ID:            l.ID,
		ApplicantName: l.ApplicantName,
		Amount:        l.Amount,
		Status:        string(l.Status),
		SubmittedBy:   l.SubmittedBy,
		CreatedAt:     l.CreatedAt,
		ReviewedBy:    l.ReviewedBy,
		ReviewedAt:    l.ReviewedAt,
		ApprovedBy:    l.ApprovedBy,
		ApprovedAt:    l.ApprovedAt,
	}
}

func newLoanResponses(loans []domain.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i, l := range loans {
		out[i] = newLoanResponse(l)
	}
	return out
}

// UserResponse is the wire shape of a directory user record. Role is the
// effective role, derived from the stored custom claims.
type UserResponse struct {
	UID           string            `json:"uid"`
	Email         string            `json:"email"`
	EmailVerified bool              `json:"emailVerified"`
	DisplayName   string            `json:"displayName,omitempty"`
	Disabled      bool              `json:"disabled"`
	Role          string            `json:"role"`
	CustomClaims  map[string]string `json:"customClaims,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastLoginAt   *time.Time        `json:"lastLoginAt,omitempty"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UID:           u.Subject,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		DisplayName:   u.DisplayName,
		Disabled:      u.Disabled,
		Role:          string(u.EffectiveRole()),
		CustomClaims:  u.CustomClaims,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

func newUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = newUserResponse(u)
	}
	return out
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
