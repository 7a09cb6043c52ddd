package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var menuCategory string

// zaika menu — list the catalog, optionally filtered by category.
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List the food menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		foods, err := a.catalog.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
		fmt.Fprintln(w, "--\t----\t--------\t-----")
		for _, f := range foods {
			if menuCategory != "" && f.Category != menuCategory {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t₹%.2f\n", f.ID, f.Name, f.Category, f.Price)
		}
		return w.Flush()
	},
}

func init() {
	menuCmd.Flags().StringVarP(&menuCategory, "category", "c", "", "only show one category")
}
