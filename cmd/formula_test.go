package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/formula/pkg/expr"
)

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewFormulaCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// a / b + logn(4, 4)
const treeYAML = `
op: add
left:
  op: div
  left: {op: var, name: a}
  right: {op: var, name: b}
right:
  op: fn
  func: logn
  args: [{op: int, value: 4}, {op: int, value: 4}]
`

func TestEval(t *testing.T) {
	tree := writeFile(t, "tree.yaml", treeYAML)

	for _, backend := range []string{"closure", "bytecode"} {
		out, err := run(t, "eval", tree, "--backend", backend, "--var", "a=1", "--var", "b=4")
		require.NoError(t, err)
		assert.Equal(t, "1.25\n", out)
	}
}

func TestEval_Int(t *testing.T) {
	tree := writeFile(t, "tree.yaml", `{op: pow, left: {op: var, name: n}, right: {op: int, value: 2}}`)

	out, err := run(t, "eval", tree, "--int", "--var", "n=12")
	require.NoError(t, err)
	assert.Equal(t, "144\n", out)

	_, err = run(t, "eval", tree, "--int", "--var", "n=1.5")
	assert.ErrorContains(t, err, `variable "n" is not an integer`)
}

func TestEval_ConfigVars(t *testing.T) {
	tree := writeFile(t, "tree.yaml", treeYAML)
	config := writeFile(t, "formula.yaml", "backend: bytecode\nformat: json\nvars: {a: 2, b: \"8\"}\n")

	out, err := run(t, "eval", tree, "--config", config)
	require.NoError(t, err)

	var row struct {
		Binding map[string]float64 `json:"binding"`
		Value   float64            `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, 1.25, row.Value)
	assert.Equal(t, map[string]float64{"a": 2, "b": 8}, row.Binding)

	// Flags override the file.
	out, err = run(t, "eval", tree, "--config", config, "--format", "text", "--var", "b=1")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestEval_Errors(t *testing.T) {
	tree := writeFile(t, "tree.yaml", treeYAML)

	_, err := run(t, "eval", tree, "--var", "a=1")
	var undefined *expr.VariableNotDefinedError
	require.True(t, errors.As(err, &undefined))
	assert.Equal(t, "b", undefined.Name)

	_, err = run(t, "eval", tree, "--backend", "jit")
	assert.Error(t, err)

	_, err = run(t, "eval", tree, "--var", "a")
	assert.ErrorContains(t, err, "malformed assignment")

	unknown := writeFile(t, "unknown.yaml", `{op: fn, func: tan, args: [{op: int, value: 1}]}`)
	_, err = run(t, "eval", unknown)
	var unsupported *expr.UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "fn:tan", unsupported.Kind)

	arity := writeFile(t, "arity.yaml", `{op: fn, func: sin, args: []}`)
	_, err = run(t, "eval", arity)
	var arityErr *expr.ArityError
	assert.True(t, errors.As(err, &arityErr))

	_, err = run(t, "eval")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	tree := writeFile(t, "tree.yaml", treeYAML)
	bindings := writeFile(t, "bindings.yaml", "- {a: 1, b: 2}\n- {a: 1}\n- {a: 6, b: 3}\n")

	out, err := run(t, "batch", tree, bindings, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "#0    a=1, b=2 | 1.5\n")
	assert.Contains(t, out, `#1    a=1 | error: The variable "b" used is not defined.`)
	assert.Contains(t, out, "#2    a=6, b=3 | 3\n")
	assert.Contains(t, out, "Failed:    1\n")

	out, err = run(t, "batch", tree, bindings, "--format", "json")
	require.NoError(t, err)
	var report struct {
		Failed int `json:"failed"`
		Rows   []struct {
			Value float64 `json:"value"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, 3.0, report.Rows[2].Value)
}

func TestSweep(t *testing.T) {
	tree := writeFile(t, "tree.yaml", `{op: mul, left: {op: var, name: k}, right: {op: var, name: x}}`)

	out, err := run(t, "sweep", tree, "--var-name", "x", "--from", "1", "--to", "3", "--step", "1", "--var", "k=10")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "f = (k * x)", lines[0])
	assert.Equal(t, "           3 | 30", lines[4])
	assert.Equal(t, "3 points", lines[5])

	out, err = run(t, "sweep", tree, "--from", "0", "--to", "1", "--step", "0.5", "--var", "k=2", "--latex")
	require.NoError(t, err)
	assert.Contains(t, out, `\begin{longtable}{rr}`)
	assert.Contains(t, out, "$0.5$ & $1$ \\\\\n")

	_, err = run(t, "sweep", tree, "--step", "0")
	assert.ErrorContains(t, err, "step must be positive")
}

func TestPrint(t *testing.T) {
	tree := writeFile(t, "tree.yaml", treeYAML)

	out, err := run(t, "print", tree)
	require.NoError(t, err)
	assert.Equal(t, "((a / b) + logn(4, 4))\n", out)

	out, err = run(t, "print", tree, "--latex")
	require.NoError(t, err)
	assert.Equal(t, "{\\frac{a}{b}} + {\\log_{4}{(4)}}\n", out)

	out, err = run(t, "print", tree, "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Nodes:      7\n")
	assert.Contains(t, out, "Depth:      3\n")
	assert.Contains(t, out, "Variables:  a, b\n")
}

func TestDisasm(t *testing.T) {
	tree := writeFile(t, "tree.yaml", treeYAML)

	out, err := run(t, "disasm", tree)
	require.NoError(t, err)
	want := strings.Join([]string{
		"; ((a / b) + logn(4, 4))",
		"; 7 instructions, 1 constants, 2 names, max stack 3",
		"0000  load      0  ; a",
		"0001  load      1  ; b",
		"0002  div",
		"0003  const     0  ; 4",
		"0004  const     0  ; 4",
		"0005  logn",
		"0006  add",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestFuzz(t *testing.T) {
	out, err := run(t, "fuzz", "--pool", "moderate", "--trees", "100", "--depth", "4", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Pool:       moderate (seed 7, max depth 4)\n")
	assert.Contains(t, out, "Mismatches: 0\n")

	_, err = run(t, "fuzz", "--pool", "nonexistent")
	assert.ErrorContains(t, err, "unknown pool")

	_, err = run(t, "fuzz", "--depth", "0")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
