// order delete removes an order.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var orderDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an order",
	Long: `Delete removes an order permanently. If the order was open it is also
removed from the opened list and the remaining entries are renumbered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("order delete", err)
		}
		defer store.Close()

		if err := store.DeleteOrder(id); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "order %d not found\n", id)
				os.Exit(exitUserError)
			}
			exitOnSysError("delete order", err)
		}

		fmt.Println("Deleted order", id)
		return nil
	},
}
