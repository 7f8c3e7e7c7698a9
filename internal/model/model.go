package model

// Layer holds the parameters of one fully-connected layer. Weights has
// shape (outputs, inputs) and Bias has one entry per output.
type Layer struct {
	Weights [][]float64
	Bias    []float64
}

// Shape returns the (rows, cols) of the weight matrix. Cols is taken from
// the first row; ragged matrices are rejected by Compute.
func (l Layer) Shape() (rows, cols int) {
	rows = len(l.Weights)
	if rows > 0 {
		cols = len(l.Weights[0])
	}
	return rows, cols
}

// Params is the full parameter set of the two-layer network.
type Params struct {
	Hidden Layer
	Output Layer
}

// Pass holds the pre-activation and activation vectors of both layers.
type Pass struct {
	Z1 []float64
	A1 []float64
	Z2 []float64
	A2 []float64
}
