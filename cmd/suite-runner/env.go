package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newEnvCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the resolved target environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(map[string]interface{}{
				"env":     cfg.Env,
				"baseUrl": cfg.Target.BaseURL,
				"timeout": cfg.Target.Timeout,
			}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
