package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"alumniport/internal/middleware"
)

var (
	tokenTTL     time.Duration
	tokenSubject string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token for serve",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default ALUMNI_TOKEN_TTL or 12h)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Subject recorded in the token")
}

func runToken(cmd *cobra.Command, args []string) error {
	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.TokenTTL
	}
	tok, err := middleware.IssueToken([]byte(cfg.AdminSecret), tokenSubject, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
