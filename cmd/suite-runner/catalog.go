package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"serverest-suite/internal/scenarios"
	"serverest-suite/pkg/registry"
)

func newCatalogCommand(opts *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Write or refresh the scenario catalog file",
		Long:  "catalog lists every registered scenario in a JSON file. Existing entries keep their enabled flag, timeout and extra tags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				cfg, err := opts.load()
				if err != nil {
					return err
				}
				out = cfg.Runner.CatalogPath
			}
			if out == "" {
				return errors.New("no catalog path: pass --out or set runner.catalog_path")
			}

			prev, err := registry.LoadCatalog(out)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			cat := registry.FromScenarios(scenarios.All(), prev)
			if err := cat.Save(out); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d scenarios to %s\n", len(cat.Scenarios), out)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "catalog file to write (default: runner.catalog_path)")
	return cmd
}
