package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/ctoken/internal/buildinfo"
	"github.com/darmiel/ctoken/internal/logging"
)

// global flags
var (
	userConfig string
	f          = NewFactory()
)

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"

	ServerAddrKey = "ctoken_server"
	ConfigFileKey = "ctoken_config"
)

var rootCmd = &cobra.Command{
	Use:   "ctoken",
	Short: fmt.Sprintf("ctoken custom token server (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `ctoken issues custom sign-in tokens for an identity provider (like Firebase)
	to callers holding an admin API key. Users are looked up by id or email,
	and users unknown by email are created on first use.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, configErr := initConfig()
		logging.Init(logging.Options{
			Level:   viper.GetString(LogLevelKey),
			Format:  viper.GetString(LogFormatKey),
			NoColor: viper.GetBool(LogNoColorKey),
		})
		if configErr != nil { // handle error after logging is initialized
			return configErr
		}
		if configPath != "" {
			log.Debug().Msgf("using user config file: %s", configPath)
		}
		if f.RemoteAddr == "" {
			f.RemoteAddr = viper.GetString(ServerAddrKey)
		}
		if f.ConfigPath == "" {
			f.ConfigPath = viper.GetString(ConfigFileKey)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVar(&userConfig, "user-config", "",
		"User configuration file for default values (default is $HOME/.ctoken.yaml)")

	rootCmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "",
		"Server configuration file (defaults and environment are used if omitted)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", logging.FormatConsole, "Log format (console, json)")
	_ = viper.BindPFlag(LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().StringVar(&f.RemoteAddr, "server", "", "Address of a remote ctoken server")

	// no env prefix: ADMIN_API_KEYS and PORT are read as-is
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func initConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if userConfig != "" {
		viper.SetConfigFile(userConfig)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		config, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(config + "/ctoken")
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".ctoken")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
	} else {
		return viper.ConfigFileUsed(), nil
	}

	return "", nil
}
