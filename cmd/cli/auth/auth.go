package auth

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/dosasset/cmd/cli/app"
	"github.com/crucial707/dosasset/cmd/cli/root"
	"github.com/crucial707/dosasset/internal/auth"
)

// InitAuth registers the token command on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(tokenCmd())
}

// tokenCmd prints a bearer token for the API, signed with the configured secret.
func tokenCmd() *cobra.Command {
	var actor string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:         "token",
		Short:       "Issue an API token",
		Long:        "Sign a JWT for the HTTP API. The actor is recorded on every history entry made with the token.",
		Annotations: map[string]string{root.NoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			if actor == "" {
				actor = a.Config.Actor
			}
			if ttl <= 0 {
				ttl = time.Duration(a.Config.JWTExpireHours) * time.Hour
			}
			token, err := auth.Issue([]byte(a.Config.JWTSecret), actor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "name recorded on history entries (default: configured actor)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: JWT_EXPIRE_HOURS)")

	return cmd
}
