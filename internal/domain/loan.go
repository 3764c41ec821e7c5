package domain

import "time"

// LoanStatus is the lifecycle state of a loan application. Transitions are
// monotonic: submitted -> under_review -> approved, with skipping allowed
// but never a step backward.
type LoanStatus string

const (
	StatusSubmitted   LoanStatus = "submitted"
	StatusUnderReview LoanStatus = "under_review"
	StatusApproved    LoanStatus = "approved"
)

// statusRank orders statuses for the monotonicity check.
var statusRank = map[LoanStatus]int{
	StatusSubmitted:   0,
	StatusUnderReview: 1,
	StatusApproved:    2,
}

// CanTransition reports whether a loan may move from one status to
// another. Only strictly forward moves are permitted.
func CanTransition(from, to LoanStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Loan is a loan application. Held in process memory by default; the
// sqlite driver persists the same shape.
type Loan struct {
	ID            int64
	ApplicantName string
	Amount        float64
	Status        LoanStatus
	SubmittedBy   string // subject of the principal who created it
	CreatedAt     time.Time
	ReviewedBy    string
	ReviewedAt    *time.Time
	ApprovedBy    string
	ApprovedAt    *time.Time
}
