package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"vp21rc/internal/api"
)

var tokenCmd = &cobra.Command{
	Use:   "token [client]",
	Short: "Mint an API bearer token",
	Long:  `Mint a bearer token for the HTTP API, signed with api.jwt_secret from the config.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AuthEnabled() {
			return fmt.Errorf("api.jwt_secret is not set in %s", configPath)
		}

		service := api.NewJWTService(cfg.API.JWTSecret, cfg.API.JWTIssuer, cfg.API.TokenExpiryHours)
		token, err := service.GenerateToken(args[0])
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
