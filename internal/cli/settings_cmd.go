package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write lab settings",
	}

	cmd.AddCommand(newSettingsGetCmd(s))
	cmd.AddCommand(newSettingsSetCmd(s))
	cmd.AddCommand(newSettingsHFTokenCmd(s))

	return cmd
}

func newSettingsGetCmd(s *session) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting; values are masked unless --reveal is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}

			value, err := app.Lab.GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !reveal {
				value = maskSecret(value)
			}

			if s.output == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]string{"key": args[0], "value": value})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show the value unmasked")

	return cmd
}

func newSettingsSetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}
			return app.Lab.SetConfig(cmd.Context(), args[0], args[1])
		},
	}
}

func newSettingsHFTokenCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "hf-token <token>",
		Short: "Store a HuggingFace access token and log in with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}
			if err := app.Lab.SetHuggingFaceToken(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "logged in to huggingface")
			return err
		},
	}
}
