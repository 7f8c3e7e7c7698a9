package model

import "math"

// Activation identifies the nonlinearity applied by a layer.
type Activation int

const (
	ActReLU Activation = iota
	ActSigmoid
)

func (a Activation) String() string {
	switch a {
	case ActReLU:
		return "ReLU"
	case ActSigmoid:
		return "Sigmoid"
	default:
		return "Unknown"
	}
}

// Apply evaluates the activation at z. An unknown activation yields NaN.
func (a Activation) Apply(z float64) float64 {
	switch a {
	case ActReLU:
		return ReLU(z)
	case ActSigmoid:
		return Sigmoid(z)
	default:
		return math.NaN()
	}
}

// ReLU returns max(0, z). NaN is passed through.
func ReLU(z float64) float64 {
	if z > 0 || math.IsNaN(z) {
		return z
	}
	return 0
}

// Sigmoid returns 1/(1+e^-z), branching on the sign of z so exp never
// sees a large positive argument.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
