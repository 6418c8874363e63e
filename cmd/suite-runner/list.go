package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"serverest-suite/internal/scenarios"
	"serverest-suite/pkg/registry"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the scenarios selected by the tag expression",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			expr := tagExpression(cmd, cfg, tags)
			selected := registry.Select(scenarios.All(), expr, cat)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSUITE\tTAGS\tNAME")
			for _, sc := range selected {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sc.ID, sc.Suite, strings.Join(sc.Tags, ","), sc.Name)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios selected by %q\n", len(selected), expr.String())
			return err
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tags", nil, `tag expression, e.g. "@smoke,~@write"`)
	return cmd
}
