// order get retrieves a single order.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var orderGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get an order by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("order get", err)
		}
		defer store.Close()

		order, err := store.GetOrder(id)
		if err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "order %d not found\n", id)
				os.Exit(exitUserError)
			}
			exitOnSysError("get order", err)
		}

		if flagJSON {
			return printJSON(order)
		}
		fmt.Printf("ID:        %d\n", order.ID)
		fmt.Printf("Client:    %s\n", order.ClientName)
		fmt.Printf("Article:   %s\n", order.ArticleName)
		fmt.Printf("Phone:     %s\n", order.Phone)
		fmt.Printf("City:      %s\n", order.City)
		fmt.Printf("Address:   %s\n", order.Address)
		fmt.Printf("Company:   %s\n", order.DeliveryCompany)
		fmt.Printf("Delivery:  %s\n", order.DeliveryDate)
		fmt.Printf("Done:      %t\n", order.Done)
		fmt.Printf("Created:   %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
		if order.Description != "" {
			fmt.Printf("Note:      %s\n", order.Description)
		}
		return nil
	},
}
