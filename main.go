package main

import (
	"os"

	"github.com/wildfunctions/formula/cmd"
	"github.com/wildfunctions/formula/pkg/util/cmdutil"
)

func main() {
	if err := cmd.NewFormulaCmd().Execute(); err != nil {
		cmdutil.Report(os.Stderr, err)
		os.Exit(1)
	}
}
