// Package cmd implements the formula command line: evaluating, sweeping,
// disassembling, and fuzzing operation trees stored as YAML or JSON
// documents.
package cmd

import (
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/compiler"
	"github.com/wildfunctions/formula/pkg/engine"
	"github.com/wildfunctions/formula/pkg/util/cmdutil"
)

// options are the persistent flags shared by every command.
type options struct {
	configFile string
	backend    string
	workers    int
	format     string
}

// config loads the config file, if any, and applies the flags the user
// set on top of it.
func (o *options) config(cmd *cobra.Command) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = engine.LoadConfig(o.configFile); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	return cfg, cfg.Validate()
}

// NewFormulaCmd creates the root command.
func NewFormulaCmd() *cobra.Command {
	var logToStderr bool
	var verbose int
	opts := &options{}
	defaults := engine.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "formula",
		Short: "Compile numeric formula trees into reusable evaluation functions",
		Long: "Compile numeric formula trees into reusable evaluation functions\n" +
			"\n" +
			"A formula is an operation tree (constants, variables, + - * / ^, and the\n" +
			"sin, cos, loge, log10 and logn functions) stored as a YAML or JSON document.\n" +
			"The tree is compiled once and the resulting function evaluated against\n" +
			"variable bindings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmdutil.InitLogging(logToStderr, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
	}

	cmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", false, "Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(
		&verbose, "verbose", "v", 0, "Enable verbose logging (e.g., v=3); anything >5 traces compilation")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(
		&opts.backend, "backend", defaults.Backend, "Compiler backend ("+strings.Join(compiler.Names(), ", ")+")")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", defaults.Workers, "Number of parallel workers")
	cmd.PersistentFlags().StringVar(&opts.format, "format", defaults.Format, "Output format (text, json)")

	cmd.AddCommand(newEvalCmd(opts))
	cmd.AddCommand(newBatchCmd(opts))
	cmd.AddCommand(newSweepCmd(opts))
	cmd.AddCommand(newPrintCmd())
	cmd.AddCommand(newDisasmCmd())
	cmd.AddCommand(newFuzzCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
