// Theme commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Read and write the UI theme",
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("theme get", err)
		}
		defer store.Close()

		theme, err := store.GetTheme()
		if err != nil {
			exitOnSysError("get theme", err)
		}

		if flagJSON {
			return printJSON(theme)
		}
		if theme == nil {
			fmt.Println("No theme saved")
			return nil
		}
		fmt.Println("Base:", theme.Base)
		for k, v := range theme.Colors {
			fmt.Printf("  %s: %s\n", k, v)
		}
		if len(theme.Confetti) > 0 {
			fmt.Println("Confetti:", theme.Confetti)
		}
		return nil
	},
}

var themeSetBaseCmd = &cobra.Command{
	Use:   "set-base <light|dark|custom>",
	Short: "Set the base theme, keeping tokens and palette",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("theme set-base", err)
		}
		defer store.Close()

		theme, err := store.GetTheme()
		if err != nil {
			exitOnSysError("get theme", err)
		}
		if theme == nil {
			theme = &types.Theme{Colors: map[string]string{}}
		}
		theme.Base = types.ParseBase(args[0])

		if err := store.SaveTheme(*theme); err != nil {
			exitOnSysError("save theme", err)
		}

		fmt.Println("Base theme set to", theme.Base)
		return nil
	},
}

var themeConfettiCmd = &cobra.Command{
	Use:   "confetti",
	Short: "Print the effective confetti palette",
	Long: `Confetti prints the colors the celebration animation uses: the
configured palette when one is saved, otherwise the base theme's
default.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			exitOnSysError("theme confetti", err)
		}
		defer store.Close()

		palette, err := store.EffectiveConfettiPalette()
		if err != nil {
			exitOnSysError("confetti palette", err)
		}

		if flagJSON {
			return printJSON(palette)
		}
		for _, color := range palette {
			fmt.Println(color)
		}
		return nil
	},
}

func init() {
	themeCmd.AddCommand(themeGetCmd)
	themeCmd.AddCommand(themeSetBaseCmd)
	themeCmd.AddCommand(themeConfettiCmd)
}
