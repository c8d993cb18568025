package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildfunctions/formula/pkg/engine"
	"github.com/wildfunctions/formula/pkg/pool"
)

func newFuzzCmd(opts *options) *cobra.Command {
	var poolName string
	var trees, mutations, depth int
	var seed int64
	defaults := engine.DefaultConfig()
	var cmd = &cobra.Command{
		Use:   "fuzz",
		Short: "Cross-check every backend against the tree interpreter on random formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("pool") {
				cfg.Pool = poolName
			}
			if flags.Changed("trees") {
				cfg.Trees = trees
			}
			if flags.Changed("mutations") {
				cfg.Mutations = mutations
			}
			if flags.Changed("depth") {
				cfg.MaxDepth = depth
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			report, fuzzErr := engine.Fuzz(cmd.Context(), cfg)

			out := cmd.OutOrStdout()
			if cfg.Format == "json" {
				if err := engine.WriteJSON(out, report); err != nil {
					return err
				}
			} else if report.Pool != "" {
				engine.WriteFuzzText(out, report)
			}
			return fuzzErr
		},
	}

	cmd.Flags().StringVar(&poolName, "pool", defaults.Pool, "Tree pool ("+strings.Join(pool.Names(), ", ")+")")
	cmd.Flags().IntVar(&trees, "trees", defaults.Trees, "Number of random trees")
	cmd.Flags().IntVar(&mutations, "mutations", defaults.Mutations, "Mutated variants checked per random tree")
	cmd.Flags().IntVar(&depth, "depth", defaults.MaxDepth, "Maximum tree depth")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed (0 = random)")

	return cmd
}
