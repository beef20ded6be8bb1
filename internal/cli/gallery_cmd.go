package cli

import (
	"strconv"

	"recipe-importer/internal/recipes"
	"recipe-importer/pkg/api"

	"github.com/spf13/cobra"
)

func newGalleryCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse and import recipes from the lab's gallery",
	}

	cmd.AddCommand(newGalleryListCmd(s))
	cmd.AddCommand(newGalleryImportCmd(s))

	return cmd
}

func newGalleryListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gallery recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}

			gallery, err := app.Gallery.List(cmd.Context())
			if err != nil {
				return err
			}

			if s.output == "json" {
				return printJSON(cmd.OutOrStdout(), gallery)
			}

			rows := make([][]string, 0, len(gallery))
			for _, desc := range gallery {
				rows = append(rows, []string{desc.Name, desc.Plugin, modelName(desc), datasetName(desc), zOrder(desc)})
			}
			return printTable(cmd.OutOrStdout(), []string{"NAME", "PLUGIN", "MODEL", "DATASET", "ORDER"}, rows)
		},
	}
}

func newGalleryImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <name>",
		Short: "Import a gallery recipe by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.load(cmd)
			if err != nil {
				return err
			}

			gallery, err := app.Gallery.List(cmd.Context())
			if err != nil {
				return err
			}

			outcome, err := recipes.NewGalleryIntake(app.Uploader).ImportByName(cmd.Context(), gallery, args[0])
			if err != nil {
				return err
			}
			return printOutcome(cmd, s.output, args[0], outcome)
		},
	}
}

func modelName(desc api.RecipeDescriptor) string {
	if desc.Model == nil {
		return "-"
	}
	return desc.Model.Name
}

func datasetName(desc api.RecipeDescriptor) string {
	if desc.Dataset == nil {
		return "-"
	}
	return desc.Dataset.Name
}

func zOrder(desc api.RecipeDescriptor) string {
	if desc.ZOrder == nil {
		return "-"
	}
	return strconv.Itoa(*desc.ZOrder)
}
