package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "hospitality-chat",
	Short: "Hotel concierge chat over websocket (terminal client + demo backend)",
	// Bare invocation behaves like `connect`.
	RunE:              runConnect,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

var flagConfig string

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "optional config file (toml, yaml or json)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", flags.Lookup("log-level"))

	addConnectFlags(rootCmd)
	rootCmd.AddCommand(connectCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute chat command")
	}
}

// setup wires configuration sources and the logger before any command runs.
// Precedence: flags, then HOSPITALITY_CHAT_* env, then the config file.
func setup(cmd *cobra.Command, args []string) error {
	viper.SetEnvPrefix("HOSPITALITY_CHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}

	// Logs go to stderr so they never interleave with the transcript on stdout.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
		log.Warn().Str("level", viper.GetString("log-level")).Msg("[chat] unknown log level; using info")
	}
	zerolog.SetGlobalLevel(level)
	return nil
}
