package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/loandesk/loandesk/internal/auth"
	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/service"
	"github.com/loandesk/loandesk/pkg/api"
	"github.com/loandesk/loandesk/pkg/slogx"
)

type LoansHandler struct {
	LoanService *service.LoanService
}

// HandleSubmit handles the submit loan endpoint
//
//	@Summary		Submit a loan application
//	@Description	Creates a new loan application in the submitted state. Any authenticated caller may apply.
//	@Tags			Loans
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SubmitLoanRequest	false	"Application details"
//	@Success		201		{object}	api.SuccessResponse{data=LoanResponse}	"Created loan"
//	@Failure		400		{object}	api.ErrorResponse	"Malformed request body"
//	@Failure		401		{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		500		{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/loans [post].
func (h *LoansHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		api.WriteError(w, api.Unauthorized("Access denied. No authentication token provided."))
		return
	}

	var req SubmitLoanRequest
	if err := decodeBody(r, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	loan, err := h.LoanService.Submit(ctx, req.ApplicantName, req.Amount, p.Subject)
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusCreated, "Loan application submitted", newLoanResponse(loan))
}

// HandleReview handles the review loan endpoint
//
//	@Summary		Move a loan to under review
//	@Description	Marks a submitted loan as under review, recording the acting officer. Requires officer role or above.
//	@Tags			Loans
//	@Produce		json
//	@Param			id	path		int	true	"Loan ID"
//	@Success		200	{object}	api.SuccessResponse{data=LoanResponse}	"Updated loan"
//	@Failure		400	{object}	api.ErrorResponse	"Invalid loan id"
//	@Failure		401	{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	api.ErrorResponse	"Insufficient permissions"
//	@Failure		404	{object}	api.ErrorResponse	"Loan not found"
//	@Failure		409	{object}	api.ErrorResponse	"Loan already progressed"
//	@Failure		500	{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/loans/{id}/review [put].
func (h *LoansHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.LoanService.Review, "Loan moved to review")
}

// HandleApprove handles the approve loan endpoint
//
//	@Summary		Approve a loan
//	@Description	Approves a loan application, recording the acting manager. Requires manager role or above.
//	@Tags			Loans
//	@Produce		json
//	@Param			id	path		int	true	"Loan ID"
//	@Success		200	{object}	api.SuccessResponse{data=LoanResponse}	"Updated loan"
//	@Failure		400	{object}	api.ErrorResponse	"Invalid loan id"
//	@Failure		401	{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	api.ErrorResponse	"Insufficient permissions"
//	@Failure		404	{object}	api.ErrorResponse	"Loan not found"
//	@Failure		409	{object}	api.ErrorResponse	"Loan already progressed"
//	@Failure		500	{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/loans/{id}/approve [put].
func (h *LoansHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.LoanService.Approve, "Loan approved")
}

// HandleList handles the list loans endpoint
//
//	@Summary		List loan applications
//	@Description	Returns every loan application in submission order. Requires officer role or above.
//	@Tags			Loans
//	@Produce		json
//	@Success		200	{object}	api.SuccessResponse{data=[]LoanResponse}	"All loans"
//	@Failure		401	{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	api.ErrorResponse	"Insufficient permissions"
//	@Failure		500	{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/loans [get].
func (h *LoansHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loans, err := h.LoanService.List(ctx)
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, "", newLoanResponses(loans))
}

func (h *LoansHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id int64, actor string) (domain.Loan, error),
	message string,
) {
	ctx := r.Context()

	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		api.WriteError(w, api.Unauthorized("Access denied. No authentication token provided."))
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, api.BadRequest("Valid loan id is required."))
		return
	}

	loan, err := op(ctx, id, p.Subject)
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, message, newLoanResponse(loan))
}

// decodeBody reads an optional JSON body. An empty body leaves the target
// zeroed; malformed JSON is a 400.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return api.BadRequest("Invalid request body.")
}

// writeErr logs unclassified failures before handing them to the envelope
// writer, which masks them as a generic 500.
func writeErr(ctx context.Context, w http.ResponseWriter, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		slogx.FromContext(ctx).Error("request failed", "error", err)
	}
	api.WriteError(w, err)
}
