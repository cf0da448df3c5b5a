package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/validate"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage task categories",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.NewCategory{Name: strings.Join(args, " ")}
			in.Color, _ = cmd.Flags().GetString("color")
			in.Icon, _ = cmd.Flags().GetString("icon")
			if err := validate.Category(in); err != nil {
				return err
			}
			id, err := a.stores.Tasks.AddCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✅ New category \"%s\" - ID: %s\n", in.Name, shortID(id))
			return nil
		},
	}
	addCmd.Flags().String("color", "#7C3AED", "hex colour")
	addCmd.Flags().String("icon", "", "icon name or emoji")

	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.stores.Tasks.Categories(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(categories) == 0 {
				printf(w, "No categories yet. Use 'daybook category add <name>' to create one.\n")
				return nil
			}
			printf(w, "%-8s %-20s %-9s %s\n", "ID", "NAME", "COLOR", "ICON")
			printf(w, "%s\n", strings.Repeat("-", 50))
			for _, c := range categories {
				printf(w, "%-8s %-20s %-9s %s\n", shortID(c.ID), truncate(c.Name, 20), c.Color, c.Icon)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}
