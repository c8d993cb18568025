package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/engine"
)

func newSweepCmd(opts *options) *cobra.Command {
	var name string
	var from, to, step float64
	var assignments []string
	var latex bool
	var cmd = &cobra.Command{
		Use:   "sweep <ast-file>",
		Short: "Evaluate a formula while stepping one variable over a range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			root, err := engine.LoadOperation(args[0])
			if err != nil {
				return err
			}
			base, err := cfg.Binding()
			if err != nil {
				return errors.Wrap(err, "config vars")
			}
			vars, err := engine.ParseAssignments(base, assignments)
			if err != nil {
				return err
			}

			e, err := engine.New(cfg, root)
			if err != nil {
				return err
			}
			report, err := e.Sweep(cmd.Context(), name, from, to, step, vars)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case latex:
				engine.WriteSweepLaTeX(out, report)
			case cfg.Format == "json":
				return engine.WriteJSON(out, report)
			default:
				engine.WriteSweepText(out, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "var-name", "x", "Variable to sweep")
	cmd.Flags().Float64Var(&from, "from", 0, "First value")
	cmd.Flags().Float64Var(&to, "to", 1, "Last value (inclusive)")
	cmd.Flags().Float64Var(&step, "step", 0.1, "Step between values")
	cmd.Flags().StringArrayVar(&assignments, "var", nil, "Bind another variable (name=value); may be repeated")
	cmd.Flags().BoolVar(&latex, "latex", false, "Write a LaTeX document with a table of values")

	return cmd
}
