package cmd

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/engine"
	"github.com/wildfunctions/formula/pkg/expr"
)

func newEvalCmd(opts *options) *cobra.Command {
	var assignments []string
	var ints bool
	var cmd = &cobra.Command{
		Use:   "eval <ast-file>",
		Short: "Compile a formula and evaluate it once",
		Long: "Compile a formula and evaluate it once\n" +
			"\n" +
			"Variables are bound with repeated --var name=value flags, on top of the\n" +
			"vars section of the config file. With --int every value must be an integer.",
		Args: cobra.ExactArgs(1),
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
			if ints {
				if vars, err = integral(vars); err != nil {
					return err
				}
			}

			e, err := engine.New(cfg, root)
			if err != nil {
				return err
			}
			v, err := e.Eval(vars)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Format == "json" {
				return engine.WriteJSON(out, engine.Row{Binding: vars, Value: engine.Number(v)})
			}
			fmt.Fprintln(out, engine.FormatValue(v))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "var", nil, "Bind a variable (name=value); may be repeated")
	cmd.Flags().BoolVar(&ints, "int", false, "Require integer variable values")

	return cmd
}

// integral narrows vars to integers and widens them back, the path an
// integer binding takes through evaluation.
func integral(vars expr.Binding) (expr.Binding, error) {
	ints := make(map[string]int, len(vars))
	for name, v := range vars {
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
			return nil, errors.Errorf("variable %q is not an integer: %v", name, v)
		}
		ints[name] = int(v)
	}
	return expr.WidenInts(ints), nil
}
