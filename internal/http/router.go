// Package http wires the loan workflow's handlers, policies and middleware
// onto a ServeMux.
package http

import (
	"log/slog"
	"net/http"

	"github.com/loandesk/loandesk/internal/auth"
	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/identity"
	"github.com/loandesk/loandesk/internal/service"
	"github.com/loandesk/loandesk/pkg/httpx"
	"github.com/loandesk/loandesk/pkg/slogx"

	_ "github.com/loandesk/loandesk/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	gateway identity.Gateway
	logger  *slog.Logger

	LoanService *service.LoanService
	UserService *service.UserService
}

func NewRouter(gateway identity.Gateway, logger *slog.Logger) *Router {
	r := &Router{
		Mux:     http.NewServeMux(),
		gateway: gateway,
		logger:  logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLoans()
	r.registerAdmin()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Loandesk API
//	@version		0.1.0
//	@description	Loan-application workflow service with role-gated endpoints. Roles are
//	@description	user, officer, manager and admin; credentials without a role claim act
//	@description	as user.
//
//	@contact.name				Loandesk Team
//	@contact.url				https://github.com/loandesk/loandesk
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLoans() {
	h := &LoansHandler{LoanService: r.LoanService}

	// POST /loans - any authenticated caller may apply - moderate rate limit
	r.Mux.Handle("POST /loans",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: domain.AllRoles,
				ResourceType: "loan application",
			}),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// PUT /loans/{id}/review - officer and above - moderate rate limit
	r.Mux.Handle("PUT /loans/{id}/review",
		httpx.Chain(http.HandlerFunc(h.HandleReview),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: []domain.Role{domain.RoleOfficer, domain.RoleManager, domain.RoleAdmin},
				ResourceType: "loan review",
			}),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// PUT /loans/{id}/approve - manager and above - moderate rate limit
	r.Mux.Handle("PUT /loans/{id}/approve",
		httpx.Chain(http.HandlerFunc(h.HandleApprove),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: []domain.Role{domain.RoleManager, domain.RoleAdmin},
				ResourceType: "loan approval",
			}),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /loans - officer and above - lenient rate limit
	r.Mux.Handle("GET /loans",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: []domain.Role{domain.RoleOfficer, domain.RoleManager, domain.RoleAdmin},
				ResourceType: "loan list",
			}),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{UserService: r.UserService}

	// PUT /admin/users/{uid}/role - manager and above - strict rate limit
	r.Mux.Handle("PUT /admin/users/{uid}/role",
		httpx.Chain(http.HandlerFunc(h.HandleSetRole),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: []domain.Role{domain.RoleManager, domain.RoleAdmin},
				ResourceType: "role assignment",
			}),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /admin/users - manager and above - moderate rate limit
	r.Mux.Handle("GET /admin/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: []domain.Role{domain.RoleManager, domain.RoleAdmin},
				ResourceType: "user list",
			}),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /admin/users/{uid} - officer and above - moderate rate limit
	r.Mux.Handle("GET /admin/users/{uid}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: []domain.Role{domain.RoleOfficer, domain.RoleManager, domain.RoleAdmin},
				ResourceType: "user record",
			}),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &MeHandler{UserService: r.UserService}

	// GET /user/me - any authenticated caller - lenient rate limit
	r.Mux.Handle("GET /user/me",
		httpx.Chain(h,
			auth.Authenticate(r.gateway),
			auth.Authorize(auth.Policy{
				AllowedRoles: domain.AllRoles,
				ResourceType: "profile",
			}),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check - lenient rate limit (monitoring systems may poll frequently)
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
