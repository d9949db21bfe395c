// order list prints order summaries, newest first.
package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("order list", err)
		}
		defer store.Close()

		summaries, err := store.ListOrders()
		if err != nil {
			exitOnSysError("list orders", err)
		}

		if flagJSON {
			return printJSON(summaries)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"ID", "Article", "Done"})
		for _, s := range summaries {
			table.Append([]string{
				strconv.FormatInt(s.ID, 10),
				s.ArticleName,
				strconv.FormatBool(s.Done),
			})
		}
		table.Render()
		return nil
	},
}
