package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tokenReq tokenRequest

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Request a custom token from a remote ctoken server",
	Example: `  ctoken token --server http://localhost:3000 --email jane@example.com --api-key $KEY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tokenReq.validate(); err != nil {
			return err
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Requesting token...")
		if tokenReq.Email != "" {
			resp, correlation, err := cli.GenerateTokenByEmail(cmd.Context(), tokenReq.Email, tokenReq.APIKey)
			if err != nil {
				return logError(err, correlation, "failed to generate token")
			}
			log.Debug().Str("correlation_id", correlation).Str("uid", resp.UserID).Msg("Token received")
			return tokenReq.print(resp)
		}

		resp, correlation, err := cli.GenerateToken(cmd.Context(), tokenReq.UserID, tokenReq.APIKey)
		if err != nil {
			return logError(err, correlation, "failed to generate token")
		}
		log.Debug().Str("correlation_id", correlation).Msg("Token received")
		return tokenReq.print(resp)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenReq.bindFlags(tokenCmd.Flags())
}
