// order add creates a new order.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

var orderAddFlags orderFlags

var orderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new order",
	Long: `Add creates a new order. The delivery company is resolved against the
company directory case-insensitively; an unknown name creates a new
directory entry with the casing as typed.

Example:
  waybill order add --client "Mari Olsen" --article "Oak Table" \
    --company "Nordic Freight" --city Bergen --date 2026-09-20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("order add", err)
		}
		defer store.Close()

		id, err := store.CreateOrder(orderAddFlags.input())
		if err != nil {
			if errors.Is(err, types.ErrInvalidCompanyName) {
				return fmt.Errorf("company name must not be blank")
			}
			exitOnSysError("create order", err)
		}

		if flagJSON {
			return printJSON(map[string]int64{"id": id})
		}
		fmt.Println("Created order", id)
		return nil
	},
}

func init() {
	orderAddFlags.register(orderAddCmd)
}
