// Package report prints a step-by-step account of a forward pass.
package report

import (
	"fmt"
	"io"
	"strings"

	"forwardpass/internal/metrics"
	"forwardpass/internal/model"
)

// Report is everything the printer needs from one run.
type Report struct {
	Input  []float64
	Params *model.Params
	Pass   model.Pass
}

// Write prints r to w in computation order. It returns the first write
// error encountered.
func Write(w io.Writer, r Report) error {
	if r.Params == nil {
		return fmt.Errorf("report: nil params")
	}
	p := &printer{w: w}

	p.line("\n=== Neural Network Forward Pass (No Training) ===")
	p.vector("Input x", r.Input)
	p.matrix("W1 (hidden weights)", r.Params.Hidden.Weights)
	p.vector("b1 (hidden bias)", r.Params.Hidden.Bias)

	p.line("\n--- Hidden Layer Computation ---")
	p.line("z1 = W1 @ x + b1")
	p.vector("z1", r.Pass.Z1)
	p.line(fmt.Sprintf("a1 = %s(z1)", model.ActReLU))
	p.vector("a1", r.Pass.A1)

	p.matrix("W2 (output weights)", r.Params.Output.Weights)
	p.vector("b2 (output bias)", r.Params.Output.Bias)

	p.line("\n--- Output Layer Computation ---")
	p.line("z2 = W2 @ a1 + b2")
	p.vector("z2", r.Pass.Z2)
	p.line(fmt.Sprintf("a2 = %s(z2)  (final output probabilities)", model.ActSigmoid))
	p.vector("a2 (final output)", r.Pass.A2)

	p.line("\n--- Summary ---")
	p.summary("hidden", metrics.Summarize(r.Pass.A1))
	p.summary("output", metrics.Summarize(r.Pass.A2))

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) vector(name string, values []float64) {
	p.line(fmt.Sprintf("\n%s (shape=(%d,)):\n%s", name, len(values), FormatVector(values)))
}

func (p *printer) matrix(name string, rows [][]float64) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	p.line(fmt.Sprintf("\n%s (shape=(%d, %d)):\n%s", name, len(rows), cols, FormatMatrix(rows)))
}

func (p *printer) summary(layer string, s metrics.Summary) {
	p.line(fmt.Sprintf("%s: n=%d active=%d min=%.4f max=%.4f mean=%.4f",
		layer, s.Len, s.Active, s.Min, s.Max, s.Mean))
}

// FormatVector renders values as a bracketed row.
func FormatVector(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%8.4f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatMatrix renders one bracketed row per line.
func FormatMatrix(rows [][]float64) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		prefix := " "
		if i == 0 {
			prefix = "["
		}
		lines[i] = prefix + FormatVector(row)
	}
	return strings.Join(lines, "\n") + "]"
}
