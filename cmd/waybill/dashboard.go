// Dashboard command renders the analytics payload.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show ledger analytics",
	Long: `Dashboard computes every analytics aggregate over the ledger as of now
and renders the headline numbers. With --json the full payload is
printed instead, including the weekly series, cohort data, and the
activity heatmap.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("dashboard", err)
		}
		defer store.Close()

		d, err := store.Dashboard(time.Now())
		if err != nil {
			exitOnSysError("compute dashboard", err)
		}

		if flagJSON {
			return printJSON(d)
		}

		renderKPIs(d.KPIs)
		renderBacklog(d.BacklogAgeBuckets)
		renderOverdue(d.Exceptions.OverdueTop10)
		return nil
	},
}

func renderKPIs(k types.KPIs) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Metric", "Value"})
	rows := [][]string{
		{"Total orders", strconv.FormatInt(k.TotalOrders, 10)},
		{"Open orders", strconv.FormatInt(k.OpenOrders, 10)},
		{"Overdue open", strconv.FormatInt(k.OverdueOpen, 10)},
		{"Due today", strconv.FormatInt(k.DueToday, 10)},
		{"Due next 7 days", strconv.FormatInt(k.DueNext7, 10)},
		{"Done last 7 days", strconv.FormatInt(k.Done7d, 10)},
		{"Done last 30 days", strconv.FormatInt(k.Done30d, 10)},
		{"Unique clients", strconv.FormatInt(k.UniqueClients, 10)},
		{"Returning clients", fmt.Sprintf("%.1f%%", k.ReturningClientsPct)},
		{"Avg lead days", formatFloatPtr(k.AvgLeadDays)},
		{"Median lead days", formatFloatPtr(k.MedianLeadDays)},
	}
	if k.TopDeliveryCompany != nil {
		rows = append(rows, []string{
			"Top company (90d)",
			fmt.Sprintf("%s (%d, %.1f%%)", k.TopDeliveryCompany.Name,
				k.TopDeliveryCompany.Count, k.TopDeliveryCompany.SharePct),
		})
	}
	if k.TopArticle != nil {
		rows = append(rows, []string{
			"Top article (90d)",
			fmt.Sprintf("%s (%d)", k.TopArticle.Name, k.TopArticle.Count),
		})
	}
	if k.TopCity != nil {
		rows = append(rows, []string{
			"Top city (90d)",
			fmt.Sprintf("%s (%d)", k.TopCity.Name, k.TopCity.Count),
		})
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

func renderBacklog(buckets []types.BucketCount) {
	if len(buckets) == 0 {
		return
	}
	fmt.Println("\nOpen orders by age (days):")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Age", "Orders"})
	for _, b := range buckets {
		table.Append([]string{b.Bucket, strconv.FormatInt(b.Count, 10)})
	}
	table.Render()
}

func renderOverdue(rows []types.ExceptionRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Println("\nMost overdue open orders:")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Article", "Client", "City", "Company", "Due", "Age (d)"})
	for _, r := range rows {
		table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			r.ArticleName,
			r.ClientName,
			r.City,
			r.DeliveryCompany,
			r.DeliveryDate,
			strconv.FormatInt(r.AgeDays, 10),
		})
	}
	table.Render()
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
