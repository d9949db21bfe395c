// Company directory commands.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage the delivery company directory",
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies, active first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("company list", err)
		}
		defer store.Close()

		companies, err := store.ListCompanies()
		if err != nil {
			exitOnSysError("list companies", err)
		}

		if flagJSON {
			return printJSON(companies)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"ID", "Name", "Active"})
		for _, c := range companies {
			table.Append([]string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				strconv.FormatBool(c.Active),
			})
		}
		table.Render()
		return nil
	},
}

var companyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a company to the directory",
	Long: `Add registers a company name. If a company with the same name already
exists under case-insensitive comparison, its existing entry is reused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("company add", err)
		}
		defer store.Close()

		id, err := store.AddCompany(args[0])
		if err != nil {
			if errors.Is(err, types.ErrInvalidCompanyName) {
				return fmt.Errorf("company name must not be blank")
			}
			exitOnSysError("add company", err)
		}

		if flagJSON {
			return printJSON(map[string]int64{"id": id})
		}
		fmt.Println("Company id", id)
		return nil
	},
}

var companyRenameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename a company",
	Long: `Rename changes a company's display name and rewrites the stored company
text on every order referencing it, in one transaction.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid company id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("company rename", err)
		}
		defer store.Close()

		if err := store.RenameCompany(id, args[1]); err != nil {
			switch {
			case isNotFound(err):
				fmt.Fprintf(os.Stderr, "company %d not found\n", id)
				os.Exit(exitUserError)
			case errors.Is(err, types.ErrInvalidCompanyName):
				return fmt.Errorf("company name must not be blank")
			case errors.Is(err, types.ErrConstraint):
				return fmt.Errorf("another company is already named %q", args[1])
			}
			exitOnSysError("rename company", err)
		}

		fmt.Println("Renamed company", id, "to", args[1])
		return nil
	},
}

var companyDeactivate bool

var companyActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Activate or deactivate a company",
	Long: `Activate makes a company visible in pickers again; with --off it is
hidden instead. Existing orders keep their company either way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid company id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			exitOnSysError("company activate", err)
		}
		defer store.Close()

		if err := store.SetCompanyActive(id, !companyDeactivate); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "company %d not found\n", id)
				os.Exit(exitUserError)
			}
			exitOnSysError("set company active", err)
		}

		if companyDeactivate {
			fmt.Println("Deactivated company", id)
		} else {
			fmt.Println("Activated company", id)
		}
		return nil
	},
}

func init() {
	companyActivateCmd.Flags().BoolVar(&companyDeactivate, "off", false, "deactivate instead")

	companyCmd.AddCommand(companyListCmd)
	companyCmd.AddCommand(companyAddCmd)
	companyCmd.AddCommand(companyRenameCmd)
	companyCmd.AddCommand(companyActivateCmd)
}
