package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/ctoken/internal/audit"
	"github.com/darmiel/ctoken/internal/core"
)

// auditLogCmd represents the audit log command
var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Display the most recent audit log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		failedOnly, err := cmd.Flags().GetBool("failed")
		if err != nil {
			return err
		}

		path, err := resolveAuditPath()
		if err != nil {
			return err
		}

		var filter func(core.AuditEntry) bool
		if failedOnly {
			filter = func(e core.AuditEntry) bool { return !e.Success }
		}

		audits, err := audit.ReadFile(path, filter, limit)
		if err != nil {
			return err
		}
		log.Info().Msgf("Retrieved %d audit entries from %s", len(audits), path)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Correlation", "Action", "User", "Key", "OK", "Error",
		})

		for _, e := range audits {
			status := greenCheck
			if !e.Success {
				status = redCross
			}

			user := e.PrincipalID
			if e.Email != "" {
				user = e.Email
				if e.PrincipalCreated {
					user += " (new)"
				}
			}

			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.ID,
				e.Action,
				truncate(user, 35),
				e.APIKeyHint,
				status,
				truncate(e.Error, 40),
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().IntP("limit", "n", 25, "Number of audit entries to show")
	auditLogCmd.Flags().Bool("failed", false, "Only show failed attempts")
}
