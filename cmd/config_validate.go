package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/ctoken/internal/apikey"
	"github.com/darmiel/ctoken/internal/config"
)

// secretProviderKeys are masked when printing the provider section.
var secretProviderKeys = map[string]bool{
	"credentials_json": true,
	"redis_password":   true,
	"signing_key":      true,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig(viper.GetViper())
		if err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return err
		}
		// build the allow-list to surface the same errors serve would
		allowList, err := apikey.NewAllowList(cfg.APIKeys, cfg.AllowDefaultKey)
		if err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return err
		}

		printConfigSummary(cfg, allowList)
		logSuccess("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}

func printConfigSummary(cfg *config.Config, allowList *apikey.AllowList) {
	keys := strings.Join(allowList.Hints(), ", ")
	if allowList.UsingFallback() {
		keys = color.YellowString("%s (built-in default key)", apikey.Hint(apikey.DefaultKey))
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Setting", "Value"})
	t.AppendRows([]table.Row{
		{"Listen address", cfg.Server.Addr()},
		{"API keys", keys},
		{"Create users on miss", cfg.CreateOnMiss},
		{"CORS origins", strings.Join(cfg.Server.AllowedOrigins, ", ")},
		{"Provider", fmt.Sprintf("%s (%s)", bold(cfg.Provider.Name), cfg.Provider.Type)},
	})

	providerKeys := make([]string, 0, len(cfg.Provider.Config))
	for k := range cfg.Provider.Config {
		providerKeys = append(providerKeys, k)
	}
	sort.Strings(providerKeys)
	for _, k := range providerKeys {
		val := fmt.Sprint(cfg.Provider.Config[k])
		if secretProviderKeys[k] {
			val = apikey.Hint(val)
		}
		t.AppendRow(table.Row{faint("  provider." + k), val})
	}

	audit := cfg.Audit.Type
	if cfg.Audit.Type == "file" {
		audit += " -> " + cfg.Audit.Path
	}
	t.AppendRow(table.Row{"Audit", audit})

	t.SetStyle(table.StyleLight)
	t.Render()
}
