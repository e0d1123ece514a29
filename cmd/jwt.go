package main

import (
	"context"
	"fmt"
	"time"

	"moderation/internal/auth"
	"moderation/internal/config"
	"moderation/pkg/domain"
	"moderation/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// JWTCommand constructs the 'jwt' subcommand that generates a signed RS256
// bearer token for a given user id and role set using the configured private
// key. Useful for bootstrapping the first admin account.
func JWTCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Generates a bearer token for given user ID",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			userID, _ := cmd.Flags().GetInt64("user")
			roleNames, _ := cmd.Flags().GetStringSlice("roles")
			TTL, _ := cmd.Flags().GetDuration("ttl")

			roles := make([]domain.Role, 0, len(roleNames))
			for _, name := range roleNames {
				role := domain.Role(name)
				if !role.Valid() {
					logger.Fatal(ctx, "unknown role", zap.String("role", name))
				}
				roles = append(roles, role)
			}

			minter, err := auth.NewMinter([]byte(cfg.JWT.PrivateKey), TTL)
			if err != nil {
				logger.Fatal(ctx, "could not create token minter", zap.Error(err))
			}

			token, err := minter.Mint(domain.User{
				Meta:  domain.Meta{ID: userID},
				Roles: roles,
			})
			if err != nil {
				logger.Fatal(ctx, "could not mint token", zap.Error(err))
			}

			fmt.Println(token) //nolint: forbidigo
		},
	}

	cmd.Flags().Int64("user", 0, "User ID the token represents")
	cmd.Flags().StringSlice("roles", []string{string(domain.RoleAdmin)}, "Roles carried by the token")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
