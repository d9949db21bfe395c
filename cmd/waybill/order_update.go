// order update replaces the business fields of an order.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

var orderUpdateFlags orderFlags

var orderUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace the fields of an order",
	Long: `Update replaces every business field of an existing order with the
given flag values. The completion flag and the creation timestamp are
left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("order update", err)
		}
		defer store.Close()

		if err := store.UpdateOrder(id, orderUpdateFlags.input()); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "order %d not found\n", id)
				os.Exit(exitUserError)
			}
			if errors.Is(err, types.ErrInvalidCompanyName) {
				return fmt.Errorf("company name must not be blank")
			}
			exitOnSysError("update order", err)
		}

		fmt.Println("Updated order", id)
		return nil
	},
}

func init() {
	orderUpdateFlags.register(orderUpdateCmd)
}
