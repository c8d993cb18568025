package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/engine"
)

func newBatchCmd(opts *options) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "batch <ast-file> <bindings-file>",
		Short: "Evaluate a formula over a list of bindings in parallel",
		Long: "Evaluate a formula over a list of bindings in parallel\n" +
			"\n" +
			"The bindings file is a YAML or JSON list of name/value maps. The formula is\n" +
			"compiled once and the function shared by all workers. A binding that leaves a\n" +
			"variable undefined fails on its own row without stopping the batch.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			root, err := engine.LoadOperation(args[0])
			if err != nil {
				return err
			}
			bindings, err := engine.LoadBindings(args[1])
			if err != nil {
				return err
			}

			e, err := engine.New(cfg, root)
			if err != nil {
				return err
			}
			report, err := e.Batch(cmd.Context(), bindings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Format == "json" {
				return engine.WriteJSON(out, report)
			}
			engine.WriteBatchText(out, report)
			return nil
		},
	}

	return cmd
}
