package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/identity"
	"github.com/loandesk/loandesk/pkg/api"
)

// subjectPattern matches identity-provider UIDs: 20 to 128 characters of
// letters, digits, underscore or hyphen.
var subjectPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,128}$`)

// SetRoleInput is the validated payload for a role assignment.
type SetRoleInput struct {
	Subject string `validate:"required,subject_id"`
	Role    string `validate:"required,app_role"`
}

type UserService struct {
	Gateway identity.Gateway

	validate *validator.Validate
}

func NewUserService(gw identity.Gateway) *UserService {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails on a nil or non-function handler.
	_ = v.RegisterValidation("subject_id", func(fl validator.FieldLevel) bool {
		return subjectPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("app_role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})

	return &UserService{Gateway: gw, validate: v}
}

// SetRole validates and stores a role assignment for a subject, then
// re-reads the directory record so the caller sees the claims that were
// actually persisted.
func (s *UserService) SetRole(ctx context.Context, in SetRoleInput) (domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, validationError(err)
	}

	user, err := s.Gateway.GetUser(ctx, in.Subject)
	if err != nil {
		return domain.User{}, mapGatewayError(err)
	}

	claims := make(map[string]string, len(user.CustomClaims)+1)
	for k, v := range user.CustomClaims {
		claims[k] = v
	}
	claims[domain.RoleClaim] = in.Role

	if err := s.Gateway.SetCustomClaims(ctx, in.Subject, claims); err != nil {
		return domain.User{}, mapGatewayError(err)
	}

	user, err = s.Gateway.GetUser(ctx, in.Subject)
	if err != nil {
		return domain.User{}, mapGatewayError(err)
	}
	return user, nil
}

// GetUser returns the directory record for a subject.
func (s *UserService) GetUser(ctx context.Context, subject string) (domain.User, error) {
	user, err := s.Gateway.GetUser(ctx, subject)
	if err != nil {
		return domain.User{}, mapGatewayError(err)
	}
	return user, nil
}

// List returns every directory record.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Gateway.ListUsers(ctx)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return api.BadRequest("Invalid request.")
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Role":
		if fe.Tag() == "required" {
			return api.BadRequest("Role is required.")
		}
		return api.BadRequest("Invalid role. Valid roles are: user, officer, manager, admin.")
	case "Subject":
		return api.BadRequest("Valid user UID is required.")
	}
	return api.BadRequest("Invalid request.")
}

func mapGatewayError(err error) error {
	if errors.Is(err, identity.ErrUserNotFound) {
		return api.NotFound("User not found.")
	}
	return err
}
