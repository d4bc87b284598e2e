package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ingrediguard/internal/allergy"
	"ingrediguard/internal/app"
	"ingrediguard/internal/menu"
)

func checkCmd(opts *options) *cobra.Command {
	var (
		menuFile string
		asJSON   bool
		unsafe   bool
	)

	cmd := &cobra.Command{
		Use:   "check ALLERGENS...",
		Short: "Check the menu against a list of allergens",
		Long: "Check every menu item against the given allergens. Allergens may be\n" +
			"separated by commas or spaces. Without --menu the stored menu is used.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text := strings.Join(args, " ")

			var (
				report *allergy.Report
				err    error
			)
			if menuFile != "" {
				report, err = checkFile(cmd, opts, menuFile, text)
			} else {
				a, openErr := opts.openApp(ctx)
				if openErr != nil {
					return openErr
				}
				defer a.Close()
				report, err = a.Allergy.CheckMenu(ctx, text)
			}
			if errors.Is(err, allergy.ErrNoAllergens) {
				return errors.New("please enter at least one allergen")
			}
			if err != nil {
				return err
			}

			if unsafe {
				report.Results = onlyUnsafe(report.Results)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&menuFile, "menu", "m", "", "check a menu CSV file instead of the stored menu")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&unsafe, "unsafe", false, "only list unsafe items")
	return cmd
}

func checkFile(cmd *cobra.Command, opts *options, path, text string) (*allergy.Report, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	tax, err := app.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}

	if err := menu.ValidateMenuFile(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := menu.ParseCSV(f)
	if err != nil {
		return nil, err
	}
	items := make([]allergy.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Dish().MenuItem())
	}

	svc := allergy.NewService(allergy.NewMatcher(tax), nil, nil, opts.logger())
	return svc.Check(cmd.Context(), items, text)
}

func onlyUnsafe(results []allergy.Result) []allergy.Result {
	out := make([]allergy.Result, 0, len(results))
	for _, r := range results {
		if !r.IsSafe {
			out = append(out, r)
		}
	}
	return out
}

func printReport(w io.Writer, report *allergy.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tSTATUS\tALLERGENS")
	for _, r := range report.Results {
		status := "safe"
		if !r.IsSafe {
			status = "UNSAFE"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, status, strings.Join(r.Offending, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, u := range report.Unrecognized {
		if u.Suggestion != "" {
			fmt.Fprintf(w, "note: %q is not a known allergen, did you mean %q?\n", u.Token, u.Suggestion)
		} else {
			fmt.Fprintf(w, "note: %q is not a known allergen; matched as a plain word\n", u.Token)
		}
	}
	return nil
}
