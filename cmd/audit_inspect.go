package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/ctoken/internal/audit"
	"github.com/darmiel/ctoken/internal/core"
)

var auditInspectCmd = &cobra.Command{
	Use:     "inspect CORRELATION-ID",
	Short:   "Show full details of a specific audit log entry",
	Example: `  ctoken audit inspect ctm1bq2r0f6c73a0hd1g`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correlationID := args[0]
		if correlationID == "" {
			return fmt.Errorf("correlation ID cannot be empty")
		}

		path, err := resolveAuditPath()
		if err != nil {
			return err
		}

		log.Debug().Msgf("Retrieving entry with correlation ID '%s'...", correlationID)
		audits, err := audit.ReadFile(path, func(e core.AuditEntry) bool {
			return e.ID == correlationID
		}, 1)
		if err != nil {
			return err
		}
		if len(audits) == 0 {
			log.Warn().Str("correlation_id", correlationID).Msg("no audit log entries found")
			return nil
		}
		printAuditEntry(audits[0])
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditInspectCmd)
}

func printAuditEntry(entry core.AuditEntry) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	printKV := func(key string, val any) {
		fmt.Printf("  %-26s %v\n", faint(key)+":", val)
	}
	orNone := func(s string) any {
		if s == "" {
			return faint("(none)")
		}
		return s
	}

	status := green("issued")
	if !entry.Success {
		status = red("rejected")
	}

	fmt.Println(bold("\n── Audit Entry ──"))
	printKV("Correlation ID", entry.ID)
	printKV("Time", entry.Time.Local().Format(time.RFC1123))
	printKV("Action", entry.Action)
	printKV("Decision", status)

	fmt.Println(bold("\n── Request ──"))
	printKV("API Key", orNone(entry.APIKeyHint))
	printKV("User ID", orNone(entry.PrincipalID))
	printKV("Email", orNone(entry.Email))
	printKV("User Created", entry.PrincipalCreated)
	if entry.Error != "" {
		printKV("Error Message", red(entry.Error))
	}
	if entry.Stacktrace != "" {
		printKV("Stacktrace", red(entry.Stacktrace))
	}

	fmt.Println(bold("\n── Output ──"))
	printKV("Provider", orNone(entry.Provider))
	printKV("Fingerprint", orNone(entry.TokenFingerprint))
	fmt.Println()
}
