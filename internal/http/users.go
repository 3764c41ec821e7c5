package http

import (
	"net/http"

	"github.com/loandesk/loandesk/internal/auth"
	"github.com/loandesk/loandesk/internal/service"
	"github.com/loandesk/loandesk/pkg/api"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles the current user endpoint
//
//	@Summary		Get the current user
//	@Description	Returns the directory record of the authenticated caller.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	api.SuccessResponse{data=UserResponse}	"Caller's record"
//	@Failure		401	{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		404	{object}	api.ErrorResponse	"User not found"
//	@Failure		500	{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/user/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		api.WriteError(w, api.Unauthorized("Access denied. No authentication token provided."))
		return
	}

	user, err := h.UserService.GetUser(ctx, p.Subject)
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, "", newUserResponse(user))
}
