package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"marbl-settings/internal/app"
	"marbl-settings/internal/ports"
)

type resolveOptions struct {
	Schema string
	Input  string
	Grid   string
	Keys   []string
	Output string
	Format string
	Strict bool
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve every parameter from the schema and an input file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Settings schema (YAML) path")
	cmd.Flags().StringVar(&opts.Input, "input", "", "Input file with 'name = value' overrides")
	cmd.Flags().StringVar(&opts.Grid, "grid", "CESM_x1", "Grid provided as 'grid = <value>'")
	cmd.Flags().StringSliceVar(&opts.Keys, "key", nil, "Extra provided keys ('name = value')")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write settings to this file instead of stdout")
	cmd.Flags().StringVar(&opts.Format, "format", string(ports.OutputFormatText), "Output format (text|yaml)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat missing subcategory/units as errors")

	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("grid", cmd.Flags().Lookup("grid"))
	_ = viper.BindPFlag("keys", cmd.Flags().Lookup("key"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("strict", cmd.Flags().Lookup("strict"))

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	req := app.ResolveRequest{
		SchemaPath: resolveString(cmd, opts.Schema, "schema", "schema"),
		InputFile:  resolveString(cmd, opts.Input, "input", "input"),
		Grid:       resolveString(cmd, opts.Grid, "grid", "grid"),
		Keys:       resolveStrings(cmd, opts.Keys, "keys", "key"),
		OutputPath: resolveString(cmd, opts.Output, "output", "output"),
		Format:     ports.OutputFormat(resolveString(cmd, opts.Format, "format", "format")),
		Strict:     resolveBool(cmd, opts.Strict, "strict", "strict"),
	}
	result, err := service.Resolve(ctx, req)
	if err != nil {
		return err
	}
	if result.OutputPath == "" {
		if err := service.WriteTo(os.Stdout, req, result); err != nil {
			return err
		}
		return nil
	}
	fmt.Printf("resolved: %d settings, %d tracers -> %s\n", result.Settings.Len(), result.TracerCount, result.OutputPath)
	return nil
}
