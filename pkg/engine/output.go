package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteBatchText writes a batch report in human-readable format.
func WriteBatchText(w io.Writer, r BatchReport) {
	for _, row := range r.Rows {
		if row.Err != "" {
			fmt.Fprintf(w, "#%-4d %s | error: %s\n", row.Index, formatBinding(row.Binding), row.Err)
			continue
		}
		fmt.Fprintf(w, "#%-4d %s | %s\n", row.Index, formatBinding(row.Binding), FormatValue(float64(row.Value)))
	}
	fmt.Fprintln(w, "==================================")
	fmt.Fprintf(w, "Formula:   %s\n", r.Formula)
	fmt.Fprintf(w, "Backend:   %s\n", r.Backend)
	fmt.Fprintf(w, "Evaluated: %s bindings in %s\n", humanize.Comma(int64(len(r.Rows))), r.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "Failed:    %s\n", humanize.Comma(int64(r.Failed)))
}

// WriteSweepText writes a sweep as two aligned columns.
func WriteSweepText(w io.Writer, r SweepReport) {
	fmt.Fprintf(w, "f = %s\n", r.Formula)
	fmt.Fprintf(w, "%12s | %s\n", r.Variable, "f")
	for _, p := range r.Points {
		y := FormatValue(float64(p.Y))
		if p.Err != "" {
			y = "error: " + p.Err
		}
		fmt.Fprintf(w, "%12s | %s\n", FormatValue(float64(p.X)), y)
	}
	fmt.Fprintf(w, "%s points\n", humanize.Comma(int64(len(r.Points))))
}

// WriteFuzzText writes a fuzz summary.
func WriteFuzzText(w io.Writer, r FuzzReport) {
	fmt.Fprintf(w, "Pool:       %s (seed %d, max depth %d)\n", r.Pool, r.Seed, r.MaxDepth)
	fmt.Fprintf(w, "Backends:   %s\n", strings.Join(r.Backends, ", "))
	fmt.Fprintf(w, "Trees:      %s (+%d mutations each)\n", humanize.Comma(int64(r.Trees)), r.Mutations)
	fmt.Fprintf(w, "Checks:     %s in %s\n", humanize.Comma(int64(r.Checks)), r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Mismatches: %s\n", humanize.Comma(int64(r.Mismatches)))
}

// WriteJSON writes any report as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// latexEscape escapes underscores for LaTeX text mode.
func latexEscape(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

// latexNumber renders v for math mode.
func latexNumber(v float64) string {
	s := FormatValue(v)
	switch s {
	case "NaN":
		return `\mathrm{NaN}`
	case "+Inf":
		return `+\infty`
	case "-Inf":
		return `-\infty`
	}
	if mant, exp, ok := strings.Cut(s, "e"); ok {
		return fmt.Sprintf(`%s \times 10^{%s}`, mant, strings.TrimPrefix(exp, "+"))
	}
	return s
}

// WriteSweepLaTeX writes a compilable LaTeX document with the formula and a
// table of its sampled values.
func WriteSweepLaTeX(w io.Writer, r SweepReport) {
	fmt.Fprintln(w, `\documentclass{article}`)
	fmt.Fprintln(w, `\usepackage{amsmath}`)
	fmt.Fprintln(w, `\usepackage{longtable}`)
	fmt.Fprintln(w, `\usepackage{geometry}`)
	fmt.Fprintln(w, `\geometry{margin=1in}`)
	fmt.Fprintf(w, "\\title{Sweep of \\texttt{%s}}\n", latexEscape(r.Variable))
	fmt.Fprintln(w, `\date{\today}`)
	fmt.Fprintln(w, `\begin{document}`)
	fmt.Fprintln(w, `\maketitle`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `\[`)
	fmt.Fprintf(w, "  f = %s\n", r.LaTeX)
	fmt.Fprintln(w, `\]`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `\begin{longtable}{rr}`)
	fmt.Fprintf(w, "$%s$ & $f$ \\\\\n", latexEscape(r.Variable))
	fmt.Fprintln(w, `\hline`)
	for _, p := range r.Points {
		y := "$" + latexNumber(float64(p.Y)) + "$"
		if p.Err != "" {
			y = `\textit{undefined}`
		}
		fmt.Fprintf(w, "$%s$ & %s \\\\\n", latexNumber(float64(p.X)), y)
	}
	fmt.Fprintln(w, `\end{longtable}`)
	fmt.Fprintln(w, `\end{document}`)
}
