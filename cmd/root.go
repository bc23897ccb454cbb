package cmd

import (
	"os"
	"time"

	coreconfig "github.com/AzielCF/az-console/core/config"
	"github.com/AzielCF/az-console/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "az-console",
	Short: "Agent configuration console",
	Long: `Serves the agent configuration wizard: guided step-by-step creation and
editing of conversational AI agents over REST, WebSocket and MCP.`,
}

// Initialized before every init() in this package; the flags bind to Global.
var _ = mustLoadConfig()

func mustLoadConfig() *coreconfig.Config {
	// Load environment variables first
	utils.LoadConfig(".")
	cfg, err := coreconfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
	return cfg
}

func init() {
	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initLogging, initApp)
}

func initFlags() {
	cfg := coreconfig.Global

	rootCmd.PersistentFlags().StringVarP(
		&cfg.App.Port,
		"port", "p",
		cfg.App.Port,
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&cfg.App.Debug,
		"debug", "d",
		cfg.App.Debug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&cfg.Wizard.Profile,
		"profile", "",
		cfg.Wizard.Profile,
		`wizard profile --profile <standard|extended> | example: --profile="extended"`,
	)
	rootCmd.PersistentFlags().DurationVarP(
		&cfg.Wizard.AutosaveDebounce,
		"autosave-debounce", "",
		cfg.Wizard.AutosaveDebounce,
		"quiet period before a draft is autosaved | example: --autosave-debounce=2s",
	)
	rootCmd.PersistentFlags().StringVarP(
		&cfg.Database.Driver,
		"db-driver", "",
		cfg.Database.Driver,
		`database driver --db-driver <sqlite|postgres> | example: --db-driver="postgres"`,
	)
	rootCmd.PersistentFlags().BoolVarP(
		&cfg.Database.RawSQL,
		"raw-sql", "",
		cfg.Database.RawSQL,
		"use the database/sql agent repository instead of gorm",
	)
}

func initLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if coreconfig.Global.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debugf("[CONFIG] %v", coreconfig.GetAllSettings())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
