// Root command for the waybill CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/internal/paths"
)

// version is the CLI version string.
const version = "0.1.0"

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Values loaded from config.yaml by PersistentPreRunE so all
// subcommands can use them.
var (
	configDataDir  string
	configLogLevel string
)

var rootCmd = &cobra.Command{
	Use:     "waybill",
	Short:   "Waybill is a local delivery-order ledger",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configLogLevel = cfg.GetString(cfgKeyLogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(openedCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(settingCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(exportCmd)
}

// resolveDataDir returns the data directory path following the
// precedence --data-dir flag > config.yaml data_dir > WAYBILL_DATA_DIR
// env > platform default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following the
// precedence --config-dir flag > WAYBILL_CONFIG_DIR env > platform
// default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
