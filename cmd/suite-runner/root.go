package main

import (
	"github.com/spf13/cobra"

	"serverest-suite/internal/common/config"
	"serverest-suite/pkg/registry"
)

type globalOptions struct {
	configFile string
	env        string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "suite-runner",
		Short:         "Run the ServeRest API regression suite",
		Long:          "suite-runner executes the ServeRest login, users, products and carts scenarios against the environment selected by --env or ENV.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: configs/config.yaml and configs/config.<env>.yaml)")
	cmd.PersistentFlags().StringVar(&opts.env, "env", "", "environment name (dev, prod); overrides ENV")

	cmd.AddCommand(
		newEnvCommand(opts),
		newListCommand(opts),
		newCatalogCommand(opts),
		newRunCommand(opts),
	)
	return cmd
}

func (o *globalOptions) load() (*config.Config, error) {
	return config.LoadWithOverrides(config.LoadOptions{ConfigFile: o.configFile, Env: o.env})
}

// tagExpression prefers --tags when given, else runner.tags from config.
func tagExpression(cmd *cobra.Command, cfg *config.Config, flagTags []string) registry.TagExpression {
	if cmd.Flags().Changed("tags") {
		return registry.ParseTags(flagTags...)
	}
	return registry.ParseTags(cfg.Runner.Tags...)
}

func loadCatalog(cfg *config.Config) (*registry.Catalog, error) {
	if cfg.Runner.CatalogPath == "" {
		return nil, nil
	}
	return registry.LoadCatalog(cfg.Runner.CatalogPath)
}
