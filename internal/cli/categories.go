package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"marbl-settings/internal/app"
)

type categoriesOptions struct {
	Schema    string
	Variables bool
}

func newCategoriesCommand() *cobra.Command {
	opts := categoriesOptions{}
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List schema categories in processing order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCategories(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Settings schema (YAML) path")
	cmd.Flags().BoolVar(&opts.Variables, "variables", false, "Also list the variables of each category")
	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	return cmd
}

func runCategories(ctx context.Context, cmd *cobra.Command, opts categoriesOptions) error {
	service := newAppService()
	result, err := service.Categories(ctx, app.CategoriesRequest{
		SchemaPath: resolveString(cmd, opts.Schema, "schema", "schema"),
	})
	if err != nil {
		return err
	}
	for _, category := range result.Categories {
		fmt.Println(category.Name)
		if !opts.Variables {
			continue
		}
		for _, variable := range category.Variables {
			fmt.Printf("  %s\n", variable)
		}
	}
	return nil
}
