// Search command suggests article names by substring.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int64

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Suggest article names containing a substring",
	Long: `Search returns distinct article names containing the given text,
most frequently ordered first. LIKE wildcards in the text are taken
literally.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("search", err)
		}
		defer store.Close()

		names, err := store.SearchArticleNames(args[0], searchLimit)
		if err != nil {
			exitOnSysError("search articles", err)
		}

		if flagJSON {
			return printJSON(names)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int64Var(&searchLimit, "limit", 10, "maximum number of suggestions")
}
