package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wildfunctions/formula/pkg/expr"
)

// Number is a float64 that survives JSON encoding when it is NaN or
// infinite; those are written as the strings "NaN", "+Inf" and "-Inf".
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte(strconv.Quote(FormatValue(v))), nil
	}
	return []byte(FormatValue(v)), nil
}

// Row is the outcome of evaluating one binding.
type Row struct {
	Index   int          `json:"index"`
	Binding expr.Binding `json:"binding"`
	Value   Number       `json:"value"`
	Err     string       `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler. Binding values are written as
// Numbers so NaN and infinite inputs survive.
func (r Row) MarshalJSON() ([]byte, error) {
	type row Row
	values := make(map[string]Number, len(r.Binding))
	for name, v := range r.Binding {
		values[name] = Number(v)
	}
	return json.Marshal(struct {
		row
		Binding map[string]Number `json:"binding"`
	}{row(r), values})
}

func newRow(i int, vars expr.Binding, v float64, err error) Row {
	r := Row{Index: i, Binding: vars, Value: Number(v)}
	if err != nil {
		r.Value = 0
		r.Err = err.Error()
	}
	return r
}

// BatchReport summarizes one batch run.
type BatchReport struct {
	Backend string        `json:"backend"`
	Formula string        `json:"formula"`
	Rows    []Row         `json:"rows"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"elapsed"`
}

// Point is one sample of a sweep.
type Point struct {
	X   Number `json:"x"`
	Y   Number `json:"y"`
	Err string `json:"error,omitempty"`
}

// SweepReport holds the samples of a sweep in order of X.
type SweepReport struct {
	Backend  string  `json:"backend"`
	Formula  string  `json:"formula"`
	LaTeX    string  `json:"latex"`
	Variable string  `json:"variable"`
	Points   []Point `json:"points"`
}

// FormatValue renders v in the shortest form that round-trips.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatBinding renders vars as "a=1, b=2" in name order.
func formatBinding(vars expr.Binding) string {
	names := vars.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + FormatValue(vars[name])
	}
	return strings.Join(parts, ", ")
}
