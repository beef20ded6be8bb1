package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(s *session) *cobra.Command {
	var (
		limit  int
		status string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled import attempts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}
			if app.Journal == nil {
				return errors.New("import journal is disabled: set JOURNAL_URL")
			}

			records, err := app.Journal.ListImports(cmd.Context(), limit, status)
			if err != nil {
				return err
			}

			if s.output == "json" {
				return printJSON(cmd.OutOrStdout(), records)
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				detail := r.Error
				if detail == "" {
					detail = strings.Join(append(r.Warnings, r.Advisory), " ")
				}
				rows = append(rows, []string{r.CreatedAt.Local().Format(time.DateTime), r.Name, r.Source, r.Status, strings.TrimSpace(detail)})
			}
			return printTable(cmd.OutOrStdout(), []string{"TIME", "NAME", "SOURCE", "STATUS", "DETAIL"}, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records")
	cmd.Flags().StringVar(&status, "status", "", "Only show records with this status (succeeded, failed, skipped)")

	return cmd
}
