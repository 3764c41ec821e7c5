package http

import (
	"net/http"

	"github.com/loandesk/loandesk/internal/service"
	"github.com/loandesk/loandesk/pkg/api"
)

type AdminHandler struct {
	UserService *service.UserService
}

// HandleSetRole handles the role assignment endpoint
//
//	@Summary		Assign a role to a user
//	@Description	Stores a role claim on the subject's directory record and returns the updated user. Requires manager role or above.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			uid		path		string			true	"Subject UID"
//	@Param			request	body		SetRoleRequest	true	"Role to assign"
//	@Success		200		{object}	api.SuccessResponse{data=UserResponse}	"Updated user"
//	@Failure		400		{object}	api.ErrorResponse	"Invalid role or UID"
//	@Failure		401		{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	api.ErrorResponse	"Insufficient permissions"
//	@Failure		404		{object}	api.ErrorResponse	"User not found"
//	@Failure		500		{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/users/{uid}/role [put].
func (h *AdminHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SetRoleRequest
	if err := decodeBody(r, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	user, err := h.UserService.SetRole(ctx, service.SetRoleInput{
		Subject: r.PathValue("uid"),
		Role:    req.Role,
	})
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, "Role assigned", newUserResponse(user))
}

// HandleList handles the list users endpoint
//
//	@Summary		List directory users
//	@Description	Returns every user record with its effective role. Requires manager role or above.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	api.SuccessResponse{data=[]UserResponse}	"All users"
//	@Failure		401	{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	api.ErrorResponse	"Insufficient permissions"
//	@Failure		500	{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/users [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.List(ctx)
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, "", newUserResponses(users))
}

// HandleGet handles the get user endpoint
//
//	@Summary		Get a directory user
//	@Description	Returns a single user record by subject UID. Requires officer role or above.
//	@Tags			Admin
//	@Produce		json
//	@Param			uid	path		string	true	"Subject UID"
//	@Success		200	{object}	api.SuccessResponse{data=UserResponse}	"User record"
//	@Failure		401	{object}	api.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	api.ErrorResponse	"Insufficient permissions"
//	@Failure		404	{object}	api.ErrorResponse	"User not found"
//	@Failure		500	{object}	api.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/users/{uid} [get].
func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.UserService.GetUser(ctx, r.PathValue("uid"))
	if err != nil {
		writeErr(ctx, w, err)
		return
	}

	api.WriteSuccess(w, http.StatusOK, "", newUserResponse(user))
}
