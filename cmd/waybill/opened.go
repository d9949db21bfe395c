// Opened-orders commands: open, opened, close.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Add an order to the opened list",
	Long: `Open appends an order to the end of the opened list. Opening an order
that is already open keeps its position.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("open", err)
		}
		defer store.Close()

		if err := store.OpenOrder(id); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "order %d not found\n", id)
				os.Exit(exitUserError)
			}
			exitOnSysError("open order", err)
		}

		fmt.Println("Opened order", id)
		return nil
	},
}

var openedCmd = &cobra.Command{
	Use:   "opened",
	Short: "List the opened orders in position order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("opened", err)
		}
		defer store.Close()

		entries, err := store.ListOpenedOrders()
		if err != nil {
			exitOnSysError("list opened orders", err)
		}

		if flagJSON {
			return printJSON(entries)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Pos", "ID", "Article"})
		for _, e := range entries {
			table.Append([]string{
				strconv.FormatInt(e.Position, 10),
				strconv.FormatInt(e.OrderID, 10),
				e.ArticleName,
			})
		}
		table.Render()
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Remove an order from the opened list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("close", err)
		}
		defer store.Close()

		if err := store.CloseOpenedOrder(id); err != nil {
			exitOnSysError("close order", err)
		}

		fmt.Println("Closed order", id)
		return nil
	},
}
