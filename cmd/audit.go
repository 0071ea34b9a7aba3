package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var auditPath string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit log written by the file auditor",
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.PersistentFlags().StringVarP(&auditPath, "path", "p", "", "Audit log file (defaults to audit.path of the configuration)")
}

// resolveAuditPath returns --path or the configured audit path.
func resolveAuditPath() (string, error) {
	if auditPath != "" {
		return auditPath, nil
	}
	cfg, err := f.LoadConfig(viper.GetViper())
	if err != nil {
		return "", err
	}
	return cfg.Audit.Path, nil
}
