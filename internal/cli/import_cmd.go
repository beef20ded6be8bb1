package cli

import (
	"fmt"
	"strconv"

	"recipe-importer/internal/recipes"
	"recipe-importer/pkg/api"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newImportCmd(s *session) *cobra.Command {
	var filterExt bool

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import recipe files (local paths, file:// or s3:// refs)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetDescription("importing recipes"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetWidth(30),
				progressbar.OptionClearOnFinish(),
			)

			report := app.Files.ImportFiles(cmd.Context(), args, recipes.FileImportOptions{
				FilterExtension: filterExt,
				OnFileDone: func(ref string, err error) {
					_ = bar.Add(1)
				},
			})
			_ = bar.Finish()

			if err := printReport(cmd, s.output, report); err != nil {
				return err
			}

			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d recipe files failed to import", len(report.Failed), len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&filterExt, "filter-ext", false, "Reject files without the configured recipe extension")

	return cmd
}

func printReport(cmd *cobra.Command, output string, report api.BatchReport) error {
	if output == "json" {
		return printJSON(cmd.OutOrStdout(), report)
	}

	rows := [][]string{
		{"attempted", strconv.Itoa(report.Attempted)},
		{"succeeded", strconv.Itoa(report.Succeeded)},
		{"skipped", strconv.Itoa(report.Skipped)},
		{"failed", strconv.Itoa(len(report.Failed))},
	}
	for _, f := range report.Failed {
		rows = append(rows, []string{f.Ref, f.Error})
	}
	return printTable(cmd.OutOrStdout(), []string{"RESULT", "COUNT"}, rows)
}

func printOutcome(cmd *cobra.Command, output, name string, outcome recipes.Outcome) error {
	res := api.ImportResponse{Name: name, Warnings: outcome.Warnings(), Advisory: outcome.Advisory()}
	if output == "json" {
		return printJSON(cmd.OutOrStdout(), res)
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", name)
	return err
}
