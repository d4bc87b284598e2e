package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ingrediguard/internal/menu"
)

func importCmd(opts *options) *cobra.Command {
	var (
		replace bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a menu CSV into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := menu.ValidateMenuFile(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			if dryRun {
				rows, err := menu.ParseCSV(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d rows would be imported\n", len(rows))
				return nil
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Menu.ImportCSV(cmd.Context(), f, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "imported %d dishes\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the current menu")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without storing it")
	return cmd
}

func exportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored menu as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return a.Menu.ExportCSV(cmd.Context(), w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
