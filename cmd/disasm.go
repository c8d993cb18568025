package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/compiler"
	"github.com/wildfunctions/formula/pkg/engine"
)

func newDisasmCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "disasm <ast-file>",
		Short: "Print the bytecode program a formula compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := engine.LoadOperation(args[0])
			if err != nil {
				return err
			}
			prog, err := compiler.CompileProgram(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "; %s\n", root.String())
			fmt.Fprintf(out, "; %d instructions, %d constants, %d names, max stack %d\n",
				len(prog.Code), len(prog.Consts), len(prog.Names), prog.MaxStack)
			fmt.Fprint(out, prog.String())
			return nil
		},
	}

	return cmd
}
