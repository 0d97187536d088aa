package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/huangsam/farmstat/schema"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. sharedSetup attaches the logger to it.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "farmstat",
	Short:              "Compare farm records across reporting periods.",
	Long:               `Farmstat turns crop and expense records into period-over-period reports with trend labels.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".farmstat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("FARMSTAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("preset", schema.DefaultPreset)
	viper.SetDefault("compare-to", contract.CompareAdjacent)
	viper.SetDefault("monthly-window", contract.DefaultMonthlyWindow)
	viper.SetDefault("addr", contract.DefaultAddr)
	viper.SetDefault("shutdown-timeout", contract.DefaultShutdownTimeout.String())
	viper.SetDefault("runs", contract.DefaultRunLimit)
}

// sharedSetup unmarshals config, runs validation and installs the logger.
func sharedSetup(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("unable to bind flags: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input, time.Now()); err != nil {
		return err
	}

	// 4. Logs go to stderr so stdout stays clean for reports and the MCP protocol.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen, NoColor: !cfg.UseColors}).
		Level(cfg.LogLevel).
		With().Timestamp().
		Logger()
	rootCtx = logger.WithContext(rootCtx)
	return nil
}

// openStore connects to the configured record store.
func openStore() (*recordstore.Store, error) {
	store, err := recordstore.NewRecordStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	zerolog.Ctx(rootCtx).Debug().Str("backend", string(cfg.Backend)).Msg("record store opened")
	return store, nil
}

// closeStore releases the store and reports a failure without masking the command result.
func closeStore(store *recordstore.Store) {
	if err := store.Close(); err != nil {
		contract.LogWarn("Failed to close record store", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
