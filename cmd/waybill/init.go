// Init command for the waybill CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the waybill ledger",
	Long: `Init creates the configuration directory with a default config.yaml,
creates the data directory, opens the ledger file, and brings its schema
up to date. Running init on an existing ledger is harmless.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureConfigDir(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("init", err)
		}
		defer store.Close()

		installID, err := store.EnsureInstallID()
		if err != nil {
			exitOnSysError("init", err)
		}

		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Waybill initialized successfully")
		fmt.Println("  config: ", configDir)
		fmt.Println("  data:   ", dataDir)
		fmt.Println("  install:", installID)
		return nil
	},
}
