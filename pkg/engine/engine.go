package engine

import (
	"context"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/formula/pkg/compiler"
	"github.com/wildfunctions/formula/pkg/expr"
)

// Engine evaluates one compiled operation tree over many bindings.
type Engine struct {
	cfg     Config
	backend compiler.Backend
	root    expr.Operation
	fn      compiler.Func
}

// New compiles root with the configured backend. Compile errors are returned
// unchanged in their chain so callers can match them with errors.As.
func New(cfg Config, root expr.Operation) (*Engine, error) {
	b, err := compiler.Get(cfg.Backend)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fn, err := b.Compile(root)
	if err != nil {
		return nil, err
	}
	glog.V(3).Infof("compiled %v with %s backend in %v", root, b.Name(), time.Since(start))

	return &Engine{
		cfg:     cfg,
		backend: b,
		root:    root,
		fn:      fn,
	}, nil
}

// Backend returns the name of the backend the tree was compiled with.
func (e *Engine) Backend() string { return e.backend.Name() }

// Root returns the compiled tree.
func (e *Engine) Root() expr.Operation { return e.root }

// Eval runs the compiled function once.
func (e *Engine) Eval(vars expr.Binding) (float64, error) {
	return e.fn(vars)
}

// Batch evaluates every binding with the configured number of workers.
// Evaluation errors are recorded on their row and do not stop the batch;
// the returned error is non-nil only when ctx is cancelled.
func (e *Engine) Batch(ctx context.Context, bindings []expr.Binding) (BatchReport, error) {
	report := BatchReport{
		Backend: e.backend.Name(),
		Formula: e.root.String(),
		Rows:    make([]Row, len(bindings)),
	}

	start := time.Now()
	err := e.each(ctx, bindings, func(i int, v float64, err error) {
		report.Rows[i] = newRow(i, bindings[i], v, err)
	})
	report.Elapsed = time.Since(start)
	if err != nil {
		return report, err
	}

	for _, r := range report.Rows {
		if r.Err != "" {
			report.Failed++
		}
	}
	glog.Infof("evaluated %d bindings with %s backend in %v (%d failed)",
		len(bindings), report.Backend, report.Elapsed, report.Failed)
	return report, nil
}

// MaxSweepPoints bounds the number of samples a single sweep may take.
const MaxSweepPoints = 1 << 20

// Sweep evaluates the tree with name stepped from `from` to `to` inclusive,
// all other variables taken from base.
func (e *Engine) Sweep(ctx context.Context, name string, from, to, step float64, base expr.Binding) (SweepReport, error) {
	if name == "" {
		return SweepReport{}, errors.New("sweep variable name is empty")
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return SweepReport{}, errors.Errorf("sweep step must be positive and finite, got %v", step)
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
		return SweepReport{}, errors.Errorf("sweep range [%v, %v] is not finite", from, to)
	}
	if from > to {
		return SweepReport{}, errors.Errorf("sweep range is empty: from %v > to %v", from, to)
	}

	// Tolerate rounding in (to-from)/step so the end point is included.
	span := math.Floor((to-from)/step + 1e-9)
	if !(span < MaxSweepPoints) {
		return SweepReport{}, errors.Errorf("sweep of [%v, %v] by %v exceeds %d points", from, to, step, MaxSweepPoints)
	}
	n := int(span) + 1
	xs := make([]float64, n)
	bindings := make([]expr.Binding, n)
	for i := range xs {
		xs[i] = from + float64(i)*step
		vars := make(expr.Binding, len(base)+1)
		for k, v := range base {
			vars[k] = v
		}
		vars[name] = xs[i]
		bindings[i] = vars
	}

	report := SweepReport{
		Backend:  e.backend.Name(),
		Formula:  e.root.String(),
		LaTeX:    e.root.LaTeX(),
		Variable: name,
		Points:   make([]Point, n),
	}
	err := e.each(ctx, bindings, func(i int, v float64, err error) {
		p := Point{X: Number(xs[i]), Y: Number(v)}
		if err != nil {
			p.Y = 0
			p.Err = err.Error()
		}
		report.Points[i] = p
	})
	return report, err
}

// each runs fn over bindings on a bounded pool of workers. Each index is
// written by exactly one goroutine.
func (e *Engine) each(ctx context.Context, bindings []expr.Binding, record func(i int, v float64, err error)) error {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range bindings {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := e.fn(bindings[i])
			record(i, v, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
