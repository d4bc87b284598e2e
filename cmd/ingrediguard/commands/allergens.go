package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ingrediguard/internal/app"
)

func allergensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "allergens",
		Short: "List allergen categories and their terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			tax, err := app.LoadTaxonomy(cfg.TaxonomyPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range tax.Categories() {
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(tax.Terms(name), ", "))
			}
			return nil
		},
	}
}
