// Describe command recalls the latest description used for an article.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <article>",
	Short: "Print the most recent description used for an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("describe", err)
		}
		defer store.Close()

		desc, ok, err := store.LatestDescriptionForArticle(args[0])
		if err != nil {
			exitOnSysError("describe article", err)
		}

		if flagJSON {
			return printJSON(map[string]any{"description": desc, "found": ok})
		}
		if ok {
			fmt.Println(desc)
		}
		return nil
	},
}
