package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/formula/pkg/compiler"
	"github.com/wildfunctions/formula/pkg/expr"
	"github.com/wildfunctions/formula/pkg/pool"
)

// FuzzReport summarizes a cross-check of every backend against the
// reference interpreter.
type FuzzReport struct {
	Pool       string        `json:"pool"`
	Seed       int64         `json:"seed"`
	Trees      int           `json:"trees"`
	Mutations  int           `json:"mutations"`
	MaxDepth   int           `json:"max_depth"`
	Backends   []string      `json:"backends"`
	Checks     int           `json:"checks"`
	Mismatches int           `json:"mismatches"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Mismatch records one backend disagreeing with the interpreter.
type Mismatch struct {
	Tree    string
	Minimal string // smallest subtree that still disagrees, if smaller than Tree
	Backend string
	Want    string
	Got     string
}

func (m *Mismatch) Error() string {
	msg := fmt.Sprintf("%s backend: %s = %s, want %s", m.Backend, m.Tree, m.Got, m.Want)
	if m.Minimal != "" {
		msg += fmt.Sprintf(" (minimal: %s)", m.Minimal)
	}
	return msg
}

// Fuzz generates random trees from the configured pool and checks that
// every registered backend produces the interpreter's result bit for bit,
// including the same error. Mismatches are aggregated into the returned
// error; the report is filled in either way.
func Fuzz(ctx context.Context, cfg Config) (FuzzReport, error) {
	p, err := pool.Get(cfg.Pool)
	if err != nil {
		return FuzzReport{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	// Generation draws from one rng so runs are reproducible from the seed.
	// cfg.Mutations mutated variants of every tree follow the random trees.
	type testCase struct {
		tree expr.Operation
		vars expr.Binding
	}
	cases := make([]testCase, cfg.Trees)
	for i := range cases {
		tree := p.RandomTree(rng, cfg.MaxDepth)
		vars := pool.RandomBinding(p, rng)
		// Drop a variable now and then to exercise VariableNotDefined.
		if names := vars.Names(); len(names) > 0 && rng.Intn(8) == 0 {
			delete(vars, names[rng.Intn(len(names))])
		}
		cases[i] = testCase{tree: tree, vars: vars}
	}
	for i, n := 0, len(cases); i < n; i++ {
		for j := 0; j < cfg.Mutations; j++ {
			cases = append(cases, testCase{tree: pool.Mutate(cases[i].tree, p, rng), vars: cases[i].vars})
		}
	}

	report := FuzzReport{
		Pool:      p.Name(),
		Seed:      seed,
		Trees:     cfg.Trees,
		Mutations: cfg.Mutations,
		MaxDepth:  cfg.MaxDepth,
		Backends:  compiler.Names(),
	}
	glog.Infof("fuzzing %d trees (%d with mutations) from pool %s (seed %d) against %v",
		cfg.Trees, len(cases), report.Pool, seed, report.Backends)

	backends := make([]compiler.Backend, len(report.Backends))
	for i, name := range report.Backends {
		if backends[i], err = compiler.Get(name); err != nil {
			return report, err
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	found := make([][]error, len(cases))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cases {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs, err := crossCheck(backends, cases[i].tree, cases[i].vars)
			found[i] = errs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.Elapsed = time.Since(start)
	report.Checks = len(cases) * len(report.Backends)

	var result *multierror.Error
	for i, errs := range found {
		for _, e := range errs {
			result = multierror.Append(result, errors.Wrapf(e, "tree %d", i))
		}
	}
	if result != nil {
		report.Mismatches = len(result.Errors)
	}
	return report, result.ErrorOrNil()
}

// crossCheck compiles tree with each backend and compares one evaluation
// against expr.Interpret. A backend failing to compile a tree the
// interpreter accepts is a hard error. Each mismatching tree is shrunk to
// the smallest subtree that still disagrees.
func crossCheck(backends []compiler.Backend, tree expr.Operation, vars expr.Binding) ([]error, error) {
	var mismatches []error
	for _, b := range backends {
		m, err := check(b, tree, vars)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}

		minimal := pool.Shrink(tree, func(t expr.Operation) bool {
			m, err := check(b, t, vars)
			return err == nil && m != nil
		})
		if minimal.NodeCount() < tree.NodeCount() {
			m.Minimal = minimal.String()
		}
		mismatches = append(mismatches, m)
	}
	return mismatches, nil
}

// check returns a non-nil Mismatch when b disagrees with the interpreter on
// tree.
func check(b compiler.Backend, tree expr.Operation, vars expr.Binding) (*Mismatch, error) {
	want, wantErr := expr.Interpret(tree, vars)

	fn, err := b.Compile(tree)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %v", tree)
	}
	got, gotErr := fn(vars)

	if wantErr != nil || gotErr != nil {
		if wantErr != nil && gotErr != nil && wantErr.Error() == gotErr.Error() {
			return nil, nil
		}
	} else if sameFloat(want, got) {
		return nil, nil
	}
	return &Mismatch{
		Tree:    tree.String(),
		Backend: b.Name(),
		Want:    outcome(want, wantErr),
		Got:     outcome(got, gotErr),
	}, nil
}

func outcome(v float64, err error) string {
	if err != nil {
		return err.Error()
	}
	return FormatValue(v)
}

// sameFloat compares bit patterns, treating any two NaNs as equal.
func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Float64bits(a) == math.Float64bits(b)
}
