package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var errNilParams = errors.New("model: nil params")

// Network is a two-layer feed-forward network with a ReLU hidden layer
// and a sigmoid output layer. It holds a reference to its parameters and
// never modifies them.
type Network struct {
	params *Params
}

// NewNetwork validates params and returns a Network bound to them.
func NewNetwork(params *Params) (*Network, error) {
	if params == nil {
		return nil, errNilParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Network{params: params}, nil
}

// Forward runs one pass over input.
func (n *Network) Forward(input []float64) (Pass, error) {
	return Compute(input, n.params)
}

// HiddenSize is the number of hidden units.
func (n *Network) HiddenSize() int { return len(n.params.Hidden.Weights) }

// OutputSize is the number of output units.
func (n *Network) OutputSize() int { return len(n.params.Output.Weights) }

// Validate checks the layers against each other. The input length is
// checked separately by Compute.
func (p *Params) Validate() error {
	if err := p.Hidden.validate("W1", "b1"); err != nil {
		return err
	}
	if err := p.Output.validate("W2", "b2"); err != nil {
		return err
	}
	_, w2Cols := p.Output.Shape()
	if hidden := len(p.Hidden.Weights); w2Cols != hidden {
		return mismatch("W2.cols", w2Cols, "W1.rows", hidden)
	}
	return nil
}

func (l Layer) validate(wName, bName string) error {
	rows, cols := l.Shape()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%s: %w", wName, ErrEmpty)
	}
	for i, row := range l.Weights {
		if len(row) != cols {
			return mismatch(fmt.Sprintf("%s[%d].len", wName, i), len(row), wName+".cols", cols)
		}
	}
	if len(l.Bias) != rows {
		return mismatch(wName+".rows", rows, bName+".len", len(l.Bias))
	}
	return nil
}

// Compute evaluates the network on input. All dimensions are checked
// before any arithmetic; on error the returned Pass is empty. Neither
// input nor params is modified and every returned slice is newly
// allocated, so Compute is safe to call concurrently.
func Compute(input []float64, params *Params) (Pass, error) {
	if params == nil {
		return Pass{}, errNilParams
	}
	if len(input) == 0 {
		return Pass{}, fmt.Errorf("input: %w", ErrEmpty)
	}
	if err := params.Validate(); err != nil {
		return Pass{}, err
	}
	if _, w1Cols := params.Hidden.Shape(); w1Cols != len(input) {
		return Pass{}, mismatch("W1.cols", w1Cols, "input.len", len(input))
	}

	x := mat.NewVecDense(len(input), append([]float64(nil), input...))

	z1 := affine(params.Hidden, x)
	a1 := activate(z1, ActReLU)
	z2 := affine(params.Output, a1)
	a2 := activate(z2, ActSigmoid)

	return Pass{
		Z1: rawCopy(z1),
		A1: rawCopy(a1),
		Z2: rawCopy(z2),
		A2: rawCopy(a2),
	}, nil
}

// affine returns W·x + b for a validated layer.
func affine(l Layer, x *mat.VecDense) *mat.VecDense {
	rows, cols := l.Shape()
	w := mat.NewDense(rows, cols, nil)
	for i, row := range l.Weights {
		w.SetRow(i, row)
	}
	b := mat.NewVecDense(rows, append([]float64(nil), l.Bias...))

	var z mat.VecDense
	z.MulVec(w, x)
	z.AddVec(&z, b)
	return &z
}

func activate(z *mat.VecDense, act Activation) *mat.VecDense {
	n := z.Len()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, act.Apply(z.AtVec(i)))
	}
	return out
}

func rawCopy(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
