// Export command writes JSONL snapshots.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write orders.jsonl and companies.jsonl snapshots",
	Long: `Export writes one JSON record per line into orders.jsonl and
companies.jsonl inside the given directory, creating it if needed.
Each file is written atomically, so an interrupted export never leaves
a half-written snapshot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("export", err)
		}
		defer store.Close()

		if err := store.ExportJSONL(args[0]); err != nil {
			exitOnSysError("export snapshots", err)
		}

		fmt.Println("Exported snapshots to", args[0])
		return nil
	},
}
