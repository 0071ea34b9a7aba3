package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darmiel/ctoken/internal/api"
	"github.com/darmiel/ctoken/internal/service"
)

const APIKeyKey = "api_key"

// tokenRequest holds the flags shared by "issue" and "token".
type tokenRequest struct {
	UserID string
	Email  string
	APIKey string
	JSON   bool
}

func (r *tokenRequest) bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&r.UserID, "user-id", "u", "", "Issue a token for this user id")
	flags.StringVarP(&r.Email, "email", "e", "", "Issue a token for the user with this email (created if missing)")
	flags.StringVarP(&r.APIKey, "api-key", "k", "", "Admin API key (env API_KEY)")
	flags.BoolVar(&r.JSON, "json", false, "Print the full response as JSON")
}

func (r *tokenRequest) validate() error {
	if r.APIKey == "" {
		r.APIKey = viper.GetString(APIKeyKey)
	}
	switch {
	case r.UserID == "" && r.Email == "":
		return errors.New("either --user-id or --email is required")
	case r.UserID != "" && r.Email != "":
		return errors.New("--user-id and --email are mutually exclusive")
	}
	return nil
}

func (r *tokenRequest) print(resp *api.TokenResponse) error {
	if r.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	// the token alone goes to stdout so it can be piped
	fmt.Println(resp.Token)
	return nil
}

var issueReq tokenRequest

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a custom token locally through the configured identity provider",
	Long: `Runs the issuance flow in-process without a server.

The configuration is loaded exactly like "serve" does (--config, then environment),
so the API key must be one the server would accept.`,
	Example: `  # Issue for an existing user id
  ctoken issue --user-id abc123 --api-key $KEY

  # Issue for an email, creating the user on first use
  PROVIDER_TYPE=local ctoken issue --email jane@example.com --api-key admin1234`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := issueReq.validate(); err != nil {
			return err
		}

		cfg, err := f.LoadConfig(viper.GetViper())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		rt, err := BuildRuntime(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initializing: %w", err)
		}
		defer func() {
			_ = rt.Close()
		}()

		var res *service.IssueResult
		if issueReq.Email != "" {
			log.Debug().Msgf("Issuing token for email '%s'...", issueReq.Email)
			res, err = rt.Service.IssueByEmail(cmd.Context(), issueReq.Email, issueReq.APIKey)
		} else {
			log.Debug().Msgf("Issuing token for user id '%s'...", issueReq.UserID)
			res, err = rt.Service.IssueByPrincipalID(cmd.Context(), issueReq.UserID, issueReq.APIKey)
		}
		if err != nil {
			return err
		}

		if res.Created {
			log.Info().Str("uid", res.PrincipalID).Msg("Created new user")
		}
		resp := &api.TokenResponse{
			Success: true,
			Token:   res.Token.String(),
		}
		if issueReq.Email != "" {
			resp.UserID = res.PrincipalID
		}
		return issueReq.print(resp)
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueReq.bindFlags(issueCmd.Flags())
}
