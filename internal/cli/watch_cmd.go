package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-importer/internal/recipes"

	"github.com/spf13/cobra"
)

func newWatchCmd(s *session) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Import recipe files as they are dropped into a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !cmd.Flags().Changed("settle") {
				settle = app.Config.WatchSettle
			}

			out := cmd.OutOrStdout()
			return app.Files.Watch(ctx, args[0], recipes.WatchOptions{
				Settle: settle,
				OnReady: func() {
					fmt.Fprintf(out, "watching %s for %s files, press Ctrl-C to stop\n", args[0], app.Config.RecipeExtension)
				},
				OnFileDone: func(ref string, err error) {
					if err != nil {
						fmt.Fprintf(out, "failed %s\n", ref)
						return
					}
					fmt.Fprintf(out, "imported %s\n", ref)
				},
			})
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", 500*time.Millisecond, "Quiet period before a new file is imported")

	return cmd
}
