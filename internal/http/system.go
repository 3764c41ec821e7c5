package http

import (
	"net/http"

	"github.com/loandesk/loandesk/pkg/api"
)

// HealthHandler reports service liveness
//
//	@Summary		Health check
//	@Description	Returns OK while the server is accepting requests. Unauthenticated.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	api.SuccessResponse{data=HealthResponse}	"Server is running"
//	@Router			/health [get].
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.WriteSuccess(w, http.StatusOK, "Server is running", HealthResponse{Status: "OK"})
	})
}
