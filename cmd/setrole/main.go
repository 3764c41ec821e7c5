// Command setrole assigns a role claim to a user directly in the SQLite
// directory, bypassing the HTTP API. Useful for bootstrapping the first
// manager or admin account.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/loandesk/loandesk/internal/domain"
	"github.com/loandesk/loandesk/internal/store"
	"github.com/loandesk/loandesk/internal/store/drivers/sqlite"
)

var subjectPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,128}$`)

func main() {
	dbFile := flag.String("db", "loandesk.db", "path to the SQLite database file")
	uid := flag.String("uid", "", "subject UID of the user (20-128 chars of [A-Za-z0-9_-])")
	roleStr := flag.String("role", "", "role to assign (user, officer, manager, admin)")
	flag.Parse()

	if !subjectPattern.MatchString(*uid) {
		fmt.Fprintln(os.Stderr, "error: a valid -uid is required (20-128 chars of [A-Za-z0-9_-])")
		flag.Usage()
		os.Exit(2)
	}

	role, err := domain.ParseRole(*roleStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid -role %q, valid roles are: user, officer, manager, admin\n", *roleStr)
		flag.Usage()
		os.Exit(2)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", *dbFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	users := db.Users()

	user, err := users.GetUserBySubject(ctx, *uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Fatalf("no user with uid %s", *uid)
		}
		log.Fatalf("failed to load user: %v", err)
	}

	claims := make(map[string]string, len(user.CustomClaims)+1)
	for k, v := range user.CustomClaims {
		claims[k] = v
	}
	claims[domain.RoleClaim] = role.String()

	if err := users.SetCustomClaims(ctx, *uid, claims); err != nil {
		log.Fatalf("failed to set role: %v", err)
	}

	fmt.Printf("assigned role %s to %s (%s)\n", role, *uid, user.Email)
}
