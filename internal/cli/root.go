package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	appcmd "recipe-importer/cmd"
	"recipe-importer/internal/config"
	"recipe-importer/internal/notify"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]any{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// session lazily wires the import workflow for the command being run.
type session struct {
	envFile string
	output  string
	app     *appcmd.App
}

func (s *session) load(cmd *cobra.Command) (*appcmd.App, error) {
	if s.app != nil {
		return s.app, nil
	}

	cfg, err := config.LoadConfig(s.envFile)
	if err != nil {
		return nil, err
	}
	cfg.SetupLogging()

	app, err := appcmd.NewApp(cmd.Context(), cfg, notify.NewConsoleNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

func newRootCmd() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:           "recipes",
		Short:         "Import training recipes into the local experiment lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOutputFormat(s.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.envFile, "env", "", "path to load env from")
	rootCmd.PersistentFlags().StringVarP(&s.output, "output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(newImportCmd(s))
	rootCmd.AddCommand(newGalleryCmd(s))
	rootCmd.AddCommand(newWatchCmd(s))
	rootCmd.AddCommand(newHistoryCmd(s))
	rootCmd.AddCommand(newSettingsCmd(s))
	rootCmd.AddCommand(newModelCmd(s))

	return rootCmd
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// maskSecret masks a sensitive string, showing first 4 and last 4 chars.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= 10 {
		return "****"
	}
	return string(r[:4]) + "****" + string(r[len(r)-4:])
}
