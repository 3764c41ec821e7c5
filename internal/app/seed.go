package app

import (
	"context"
	"fmt"
	"time"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/pkg/idx"
	"github.com/loandesk/loandesk/pkg/jwtx"
)

// seedDevUsers populates an empty directory with one user per role so the
// API is explorable straight after boot. A ready-to-use bearer token is
// logged for each seeded user. Dev environments only.
func (app *Application) seedDevUsers(ctx context.Context) error {
	empty, err := app.db.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	now := time.Now().UTC()
	for _, role := range domain.AllRoles {
		subject := fmt.Sprintf("dev-%s-%s", role, idx.New())
		email := fmt.Sprintf("%s@loandesk.dev", role)

		u := domain.User{
			Subject:       subject,
			Email:         email,
			EmailVerified: true,
			DisplayName:   fmt.Sprintf("Dev %s", role),
			CustomClaims:  map[string]string{domain.RoleClaim: role.String()},
			CreatedAt:     now,
		}
		if err := app.db.Users().CreateUser(ctx, u); err != nil {
			return err
		}

		token, err := jwtx.MintDevToken(
			app.signer, subject, email, role.String(),
			app.cfg.Issuer, app.cfg.Audience, 24*time.Hour,
		)
		if err != nil {
			return err
		}

		app.logger.Info("seeded dev user",
			"subject", subject,
			"role", role,
			"token", token,
		)
	}

	return nil
}
