package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/engine"
	"github.com/wildfunctions/formula/pkg/expr"
)

func newPrintCmd() *cobra.Command {
	var latex bool
	var stats bool
	var cmd = &cobra.Command{
		Use:   "print <ast-file>",
		Short: "Print a formula in infix or LaTeX notation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := engine.LoadOperation(args[0])
			if err != nil {
				return err
			}
			if expr.IsNil(root) {
				return expr.ErrNullOperation
			}

			out := cmd.OutOrStdout()
			if latex {
				fmt.Fprintln(out, root.LaTeX())
			} else {
				fmt.Fprintln(out, root.String())
			}
			if stats {
				fmt.Fprintf(out, "Nodes:      %d\n", root.NodeCount())
				fmt.Fprintf(out, "Depth:      %d\n", root.Depth())
				fmt.Fprintf(out, "Complexity: %.2f\n", expr.WeightedComplexity(root))
				fmt.Fprintf(out, "Variables:  %s\n", strings.Join(expr.Variables(root), ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&latex, "latex", false, "Print LaTeX instead of infix")
	cmd.Flags().BoolVar(&stats, "stats", false, "Also print node count, depth, complexity and variables")

	return cmd
}
