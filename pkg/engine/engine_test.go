package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/formula/pkg/compiler"
	"github.com/wildfunctions/formula/pkg/expr"
)

func newEngine(t *testing.T, backend string, root expr.Operation) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Backend = backend
	cfg.Workers = 4
	e, err := New(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEngine_New(t *testing.T) {
	e := newEngine(t, "bytecode", expr.Add(expr.Var("a"), expr.Int(1)))
	assert.Equal(t, "bytecode", e.Backend())
	assert.Equal(t, "(a + 1)", e.Root().String())

	v, err := e.Eval(expr.Binding{"a": 2})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestEngine_NewErrors(t *testing.T) {
	cfg := DefaultConfig()
	_, err := New(cfg, nil)
	assert.True(t, errors.Is(err, expr.ErrNullOperation))

	_, err = New(cfg, expr.Call(expr.FunctionKind(77), expr.Int(1)))
	var unsupported *expr.UnsupportedFunctionError
	assert.True(t, errors.As(err, &unsupported))

	cfg.Backend = "jit"
	_, err = New(cfg, expr.Int(1))
	assert.Error(t, err)
}

func TestEngine_Batch(t *testing.T) {
	root := expr.Div(expr.Var("a"), expr.Var("b"))
	bindings := []expr.Binding{
		{"a": 1, "b": 2},
		{"a": 1, "b": 0},
		{"a": 3},
		{"a": 9, "b": 3},
	}

	for _, backend := range compiler.Names() {
		t.Run(backend, func(t *testing.T) {
			e := newEngine(t, backend, root)
			report, err := e.Batch(context.Background(), bindings)
			require.NoError(t, err)

			require.Len(t, report.Rows, 4)
			assert.Equal(t, 1, report.Failed)
			assert.Equal(t, "(a / b)", report.Formula)
			assert.Equal(t, backend, report.Backend)

			assert.Equal(t, Number(0.5), report.Rows[0].Value)
			assert.True(t, math.IsInf(float64(report.Rows[1].Value), 1))
			assert.Equal(t, `The variable "b" used is not defined.`, report.Rows[2].Err)
			assert.Equal(t, Number(3), report.Rows[3].Value)
			for i, r := range report.Rows {
				assert.Equal(t, i, r.Index)
			}
		})
	}
}

func TestEngine_BatchManyWorkers(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Pow(expr.Var("x"), expr.Int(2)))

	bindings := make([]expr.Binding, 5000)
	for i := range bindings {
		bindings[i] = expr.Binding{"x": float64(i)}
	}
	report, err := e.Batch(context.Background(), bindings)
	require.NoError(t, err)
	for i, r := range report.Rows {
		if float64(r.Value) != float64(i*i) {
			t.Fatalf("row %d = %v, want %d", i, r.Value, i*i)
		}
	}
}

func TestEngine_BatchCancelled(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Var("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Batch(ctx, []expr.Binding{{"x": 1}, {"x": 2}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEngine_Sweep(t *testing.T) {
	root := expr.Add(expr.Mul(expr.Var("k"), expr.Var("x")), expr.Var("c"))
	e := newEngine(t, "bytecode", root)

	report, err := e.Sweep(context.Background(), "x", 0, 1, 0.1, expr.Binding{"k": 2, "c": 1})
	require.NoError(t, err)
	require.Len(t, report.Points, 11)
	assert.Equal(t, "x", report.Variable)

	for i, p := range report.Points {
		x := float64(i) * 0.1
		assert.Equal(t, Number(x), p.X)
		assert.Equal(t, Number(2*x+1), p.Y)
		assert.Empty(t, p.Err)
	}
}

func TestEngine_SweepLimit(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Var("x"))

	report, err := e.Sweep(context.Background(), "x", 0, MaxSweepPoints-1, 1, nil)
	require.NoError(t, err)
	assert.Len(t, report.Points, MaxSweepPoints)

	_, err = e.Sweep(context.Background(), "x", 0, MaxSweepPoints, 1, nil)
	assert.ErrorContains(t, err, "exceeds")
}

func TestEngine_SweepMissingVariable(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Sub(expr.Var("x"), expr.Var("y")))

	report, err := e.Sweep(context.Background(), "x", 1, 3, 1, nil)
	require.NoError(t, err)
	require.Len(t, report.Points, 3)
	for _, p := range report.Points {
		assert.Equal(t, `The variable "y" used is not defined.`, p.Err)
	}
}

func TestEngine_SweepErrors(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Var("x"))
	ctx := context.Background()

	cases := []struct {
		name           string
		variable       string
		from, to, step float64
	}{
		{"empty name", "", 0, 1, 1},
		{"zero step", "x", 0, 1, 0},
		{"negative step", "x", 0, 1, -1},
		{"nan step", "x", 0, 1, math.NaN()},
		{"reversed", "x", 2, 1, 1},
		{"infinite", "x", 0, math.Inf(1), 1},
		{"too many points", "x", 0, 1e9, 1e-9},
		{"overflowing span", "x", -math.MaxFloat64, math.MaxFloat64, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Sweep(ctx, tc.variable, tc.from, tc.to, tc.step, nil)
			assert.Error(t, err)
		})
	}
}

func TestFuzz_BackendsAgree(t *testing.T) {
	for _, name := range []string{"arith", "moderate", "kitchensink"} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Pool = name
			cfg.Trees = 200
			cfg.MaxDepth = 5
			cfg.Mutations = 2
			cfg.Seed = 42
			cfg.Workers = 4

			report, err := Fuzz(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, 0, report.Mismatches)
			assert.Equal(t, int64(42), report.Seed)
			assert.Equal(t, 200*3*len(compiler.Names()), report.Checks)
		})
	}
}

func TestFuzz_UnknownPool(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pool = "nonexistent"
	_, err := Fuzz(context.Background(), cfg)
	assert.Error(t, err)
}

func TestMismatchMessage(t *testing.T) {
	m := &Mismatch{Tree: "(x + 1)", Backend: "bytecode", Want: "3", Got: "NaN"}
	assert.Equal(t, "bytecode backend: (x + 1) = NaN, want 3", m.Error())

	m.Minimal = "x"
	assert.Equal(t, "bytecode backend: (x + 1) = NaN, want 3 (minimal: x)", m.Error())
}

// skewed is a backend that gets sin wrong.
type skewed struct{}

func (skewed) Name() string { return "skewed" }

func (skewed) Compile(root expr.Operation) (compiler.Func, error) {
	if expr.IsNil(root) {
		return nil, expr.ErrNullOperation
	}
	return func(vars expr.Binding) (float64, error) {
		v, err := expr.Interpret(root, vars)
		if err == nil && strings.Contains(root.String(), "sin(") {
			v += 1
		}
		return v, err
	}, nil
}

func TestCrossCheck_ShrinksMismatch(t *testing.T) {
	closure, err := compiler.Get("closure")
	require.NoError(t, err)

	tree := expr.Add(expr.Mul(expr.Var("x"), expr.Int(2)), expr.Call(expr.Sine, expr.Add(expr.Var("x"), expr.Int(1))))
	errs, err := crossCheck([]compiler.Backend{closure, skewed{}}, tree, expr.Binding{"x": 0.5})
	require.NoError(t, err)
	require.Len(t, errs, 1)

	var m *Mismatch
	require.True(t, errors.As(errs[0], &m))
	assert.Equal(t, "skewed", m.Backend)
	assert.Equal(t, tree.String(), m.Tree)
	assert.Equal(t, "sin(x)", m.Minimal)
}

func TestNumber_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Number{1.5, Number(math.NaN()), Number(math.Inf(-1)), 1e21})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,"NaN","-Inf",1e+21]`, string(data))
}

func TestWriteBatchText(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Mul(expr.Var("x"), expr.Var("y")))
	report, err := e.Batch(context.Background(), []expr.Binding{{"y": 2, "x": 3}, {"x": 1}})
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteBatchText(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "#0    x=3, y=2 | 6\n")
	assert.Contains(t, out, `#1    x=1 | error: The variable "y" used is not defined.`)
	assert.Contains(t, out, "Evaluated: 2 bindings")
	assert.Contains(t, out, "Failed:    1\n")
}

func TestWriteJSON_Batch(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Div(expr.Int(1), expr.Var("x")))
	report, err := e.Batch(context.Background(), []expr.Binding{{"x": 0}, {"x": 4}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))

	var decoded struct {
		Rows []struct {
			Value interface{} `json:"value"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, "+Inf", decoded.Rows[0].Value)
	assert.Equal(t, 0.25, decoded.Rows[1].Value)
}

func TestWriteJSON_NonFiniteBinding(t *testing.T) {
	bindings, err := DecodeBindings([]byte(`[{x: .nan}, {x: "Inf"}, {x: 2}]`))
	require.NoError(t, err)

	e := newEngine(t, compiler.DefaultBackend, expr.Mul(expr.Var("x"), expr.Int(2)))
	report, err := e.Batch(context.Background(), bindings)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))

	var decoded struct {
		Rows []struct {
			Index   int                    `json:"index"`
			Binding map[string]interface{} `json:"binding"`
			Value   interface{}            `json:"value"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Rows, 3)
	assert.Equal(t, "NaN", decoded.Rows[0].Binding["x"])
	assert.Equal(t, "NaN", decoded.Rows[0].Value)
	assert.Equal(t, "+Inf", decoded.Rows[1].Binding["x"])
	assert.Equal(t, "+Inf", decoded.Rows[1].Value)
	assert.Equal(t, 2.0, decoded.Rows[2].Binding["x"])
	assert.Equal(t, 4.0, decoded.Rows[2].Value)
	assert.Equal(t, 2, decoded.Rows[2].Index)
}

func TestWriteSweepLaTeX(t *testing.T) {
	e := newEngine(t, compiler.DefaultBackend, expr.Div(expr.Int(1), expr.Var("x_0")))
	report, err := e.Sweep(context.Background(), "x_0", 0, 2, 1, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSweepLaTeX(&buf, report)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `\documentclass{article}`))
	assert.Contains(t, out, `f = \frac{1}{\mathit{x\_0}}`)
	assert.Contains(t, out, "$0$ & $+\\infty$ \\\\\n")
	assert.Contains(t, out, "$2$ & $0.5$ \\\\\n")
	assert.True(t, strings.HasSuffix(out, "\\end{document}\n"))
}

func TestLatexNumber(t *testing.T) {
	assert.Equal(t, `1.5 \times 10^{-07}`, latexNumber(1.5e-7))
	assert.Equal(t, `\mathrm{NaN}`, latexNumber(math.NaN()))
	assert.Equal(t, "42", latexNumber(42))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formula.yaml")
	data := "backend: bytecode\nworkers: 2\nvars:\n  x: 2\n  y: \"0.5\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bytecode", cfg.Backend)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "arith", cfg.Pool)
	assert.Equal(t, 5, cfg.MaxDepth)

	vars, err := cfg.Binding()
	require.NoError(t, err)
	assert.Equal(t, expr.Binding{"x": 2, "y": 0.5}, vars)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("backend: jit\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	badFormat := filepath.Join(dir, "format.yaml")
	require.NoError(t, os.WriteFile(badFormat, []byte("format: xml\n"), 0o644))
	_, err = LoadConfig(badFormat)
	assert.Error(t, err)
}
