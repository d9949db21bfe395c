// order done toggles the completion flag.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var orderDoneUndo bool

var orderDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an order as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("order done", err)
		}
		defer store.Close()

		if err := store.SetOrderDone(id, !orderDoneUndo); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "order %d not found\n", id)
				os.Exit(exitUserError)
			}
			exitOnSysError("set done", err)
		}

		if orderDoneUndo {
			fmt.Println("Reopened order", id)
		} else {
			fmt.Println("Marked order", id, "as done")
		}
		return nil
	},
}

func init() {
	orderDoneCmd.Flags().BoolVar(&orderDoneUndo, "undo", false, "mark the order as not done")
}
