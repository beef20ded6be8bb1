package cli

import (
	"encoding/json"
	"fmt"

	"recipe-importer/pkg/models"

	"github.com/spf13/cobra"
)

func newModelCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect foundation models",
	}

	cmd.AddCommand(newModelConfigCmd(s))

	return cmd
}

func newModelConfigCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "config <owner/name>",
		Short: "Show the known fields of a HuggingFace model's config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.IsHuggingFaceID(args[0]) {
				return fmt.Errorf("model '%s' is not a huggingface model id", args[0])
			}

			app, err := s.load(cmd)
			if err != nil {
				return err
			}

			cfg, err := app.Lab.ModelConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			details := models.TranslateConfig(cfg)

			if s.output == "json" {
				return printJSON(cmd.OutOrStdout(), details)
			}

			rows := make([][]string, 0, len(details))
			for _, d := range details {
				value, err := json.Marshal(d.Value)
				if err != nil {
					return fmt.Errorf("error formatting %s: %w", d.Key, err)
				}
				rows = append(rows, []string{d.Label, d.Key, string(value)})
			}
			return printTable(cmd.OutOrStdout(), []string{"FIELD", "KEY", "VALUE"}, rows)
		},
	}
}
