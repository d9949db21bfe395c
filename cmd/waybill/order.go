// Order command group for the waybill CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Manage delivery orders",
}

func init() {
	orderCmd.AddCommand(orderAddCmd)
	orderCmd.AddCommand(orderGetCmd)
	orderCmd.AddCommand(orderUpdateCmd)
	orderCmd.AddCommand(orderDoneCmd)
	orderCmd.AddCommand(orderDeleteCmd)
	orderCmd.AddCommand(orderListCmd)
}

// orderFlags holds the business-field flag values shared by order add
// and order update.
type orderFlags struct {
	client      string
	article     string
	phone       string
	city        string
	address     string
	company     string
	date        string
	description string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.client, "client", "", "client name")
	cmd.Flags().StringVar(&f.article, "article", "", "article name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "client phone number")
	cmd.Flags().StringVar(&f.city, "city", "", "delivery city")
	cmd.Flags().StringVar(&f.address, "address", "", "delivery address")
	cmd.Flags().StringVar(&f.company, "company", "", "delivery company name")
	cmd.Flags().StringVar(&f.date, "date", "", "delivery date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.description, "description", "", "free-form note")

	cmd.MarkFlagRequired("client")
	cmd.MarkFlagRequired("article")
	cmd.MarkFlagRequired("company")
}

func (f *orderFlags) input() types.OrderInput {
	return types.OrderInput{
		ClientName:      f.client,
		ArticleName:     f.article,
		Phone:           f.phone,
		City:            f.city,
		Address:         f.address,
		DeliveryCompany: f.company,
		DeliveryDate:    f.date,
		Description:     f.description,
	}
}
