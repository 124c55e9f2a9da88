package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-feedback/internal/config"
	"github.com/jonathan/interview-feedback/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for development",
	Long: `Signs a token for the session API with JWT_SECRET. Without --user-id a
random user is used.`,
	RunE: runToken,
}

var tokenUserID string

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user-id", "u", "", "User UUID to put in the token")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	userID := uuid.New()
	if tokenUserID != "" {
		userID, err = uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", tokenUserID, err)
		}
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(userID)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
