// Package cmd implements the ducksearch CLI commands using Cobra.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
	appBuiltBy = "unknown"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile string
	Root    string
	Verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ducksearch",
	Short: "Parameterized analytical report engine over DuckDB",
	Long: `ducksearch runs parameterized SQL reports against parquet data through an
embedded DuckDB engine. A root directory holds report definitions, composite
imports, and a cache; reports declare placeholders that are resolved against a
request payload and compiled to SQL before execution.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Root())
	},
	SilenceUsage: true,
}

func init() {
	// Persistent flags available to all subcommands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&Root, "root", ".", "report root directory")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose output")

	// Command groups for organized help output.
	rootCmd.AddGroup(
		&cobra.Group{ID: "building", Title: "Building"},
		&cobra.Group{ID: "serving", Title: "Serving"},
	)
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets build-time version information from ldflags.
// Call this from main.go before Execute().
func SetVersionInfo(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("ducksearch %s (commit: %s, built: %s by %s)\n", version, commit, date, builtBy),
	)
}

// initConfig loads defaults, the config file and DUCKSEARCH_* env vars
// into Viper. No command reads values back from Viper: serve and lint use
// their own flags and adapters/config's loader, so these settings do not
// change their behavior.
func initConfig(root *cobra.Command) error {
	viper.SetConfigType("toml")

	// 1. Set built-in defaults (the same values adapters/config's own
	// defaultConfig uses).
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.workers", 1)
	viper.SetDefault("cache.ttl_seconds", 300)

	// 2. --config overrides path resolution entirely.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		viper.SetConfigFile(Root + "/config.toml")
		_ = viper.ReadInConfig() // missing file is not an error; root validator owns PathMissing
	}

	// 3. Environment variables override config files.
	viper.SetEnvPrefix("DUCKSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}
