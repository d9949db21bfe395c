// Settings commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var settingCmd = &cobra.Command{
	Use:   "setting",
	Short: "Read and write key/value settings",
}

var settingGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("setting get", err)
		}
		defer store.Close()

		value, ok, err := store.GetSetting(args[0])
		if err != nil {
			exitOnSysError("get setting", err)
		}

		if flagJSON {
			return printJSON(map[string]any{"key": args[0], "value": value, "set": ok})
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "setting %q is not set\n", args[0])
			os.Exit(exitUserError)
		}
		fmt.Println(value)
		return nil
	},
}

var settingSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("setting set", err)
		}
		defer store.Close()

		if err := store.SetSetting(args[0], args[1]); err != nil {
			exitOnSysError("set setting", err)
		}

		fmt.Println("Set", args[0])
		return nil
	},
}

func init() {
	settingCmd.AddCommand(settingGetCmd)
	settingCmd.AddCommand(settingSetCmd)
}
