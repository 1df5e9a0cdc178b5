package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/trax/internal/repositories"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/urfave/cli/v3"
)

// withUserRepository opens the configured database and hands the repository to fn.
func (r *Runner) withUserRepository(fn func(*repositories.UserRepository) error) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(repositories.NewUserRepository(db))
}

// TokenIssue mints a bearer token for an existing user.
func (r *Runner) TokenIssue(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	if userID == "" {
		return fmt.Errorf("%w: --user flag is required", shared.ErrMissingArgument)
	}

	ttl := time.Duration(cmd.Int("ttl")) * time.Hour

	return r.withUserRepository(func(users *repositories.UserRepository) error {
		token, err := users.IssueToken(userID, ttl)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		r.logger.Info("token issued", "user", userID)
		return r.writeJSON(map[string]string{"token": token}, true)
	})
}

// TokenRevoke deletes a bearer token.
func (r *Runner) TokenRevoke(ctx context.Context, cmd *cli.Command) error {
	token := cmd.String("token")
	if token == "" {
		return fmt.Errorf("%w: --token flag is required", shared.ErrMissingArgument)
	}

	return r.withUserRepository(func(users *repositories.UserRepository) error {
		if err := users.RevokeToken(token); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}

		return r.writePlain("✓ Token revoked\n")
	})
}

func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage bearer tokens",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Mint a bearer token for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Internal user ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "ttl",
						Usage: "Token lifetime in hours (0 uses the default)",
					},
				},
				Action: r.TokenIssue,
			},
			{
				Name:  "revoke",
				Usage: "Revoke a bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Usage:    "Token to revoke",
						Required: true,
					},
				},
				Action: r.TokenRevoke,
			},
		},
	}
}
