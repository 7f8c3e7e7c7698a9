package model

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceInput() []float64 {
	return []float64{0.50, -1.20, 0.30}
}

func referenceParams() *Params {
	return &Params{
		Hidden: Layer{
			Weights: [][]float64{
				{0.20, -0.10, 0.40},
				{-0.70, 0.30, 0.10},
				{0.50, 0.80, -0.60},
				{0.10, -0.40, 0.20},
			},
			Bias: []float64{0.10, -0.20, 0.05, 0.00},
		},
		Output: Layer{
			Weights: [][]float64{
				{0.30, -0.20, 0.10, 0.50},
				{-0.40, 0.60, -0.10, 0.20},
			},
			Bias: []float64{0.00, 0.10},
		},
	}
}

func TestComputeReferenceGolden(t *testing.T) {
	pass, err := Compute(referenceInput(), referenceParams())
	require.NoError(t, err)

	assertVec(t, "z1", []float64{0.44, -0.88, -0.84, 0.59}, pass.Z1)
	assertVec(t, "a1", []float64{0.44, 0, 0, 0.59}, pass.A1)
	assertVec(t, "z2", []float64{0.427, 0.042}, pass.Z2)
	assertVec(t, "a2", []float64{0.6051570690631999, 0.5104984567722248}, pass.A2)
}

func TestComputeDeterministic(t *testing.T) {
	params := referenceParams()
	first, err := Compute(referenceInput(), params)
	require.NoError(t, err)
	second, err := Compute(referenceInput(), params)
	require.NoError(t, err)

	if !bitEqual(first.Z1, second.Z1) || !bitEqual(first.A1, second.A1) ||
		!bitEqual(first.Z2, second.Z2) || !bitEqual(first.A2, second.A2) {
		t.Fatalf("repeated passes differ: %+v vs %+v", first, second)
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	input := referenceInput()
	params := referenceParams()

	_, err := Compute(input, params)
	require.NoError(t, err)

	assert.Equal(t, referenceInput(), input)
	assert.Equal(t, referenceParams(), params)
}

func TestComputeActivationInvariants(t *testing.T) {
	inputs := [][]float64{
		referenceInput(),
		{3, -2, 7},
		{-5, -5, -5},
		{0, 0, 0},
		{10, 20, -30},
	}
	for _, in := range inputs {
		pass, err := Compute(in, referenceParams())
		require.NoError(t, err)
		for j, z := range pass.Z1 {
			if pass.A1[j] != math.Max(0, z) {
				t.Fatalf("a1[%d]=%v want max(0,%v)", j, pass.A1[j], z)
			}
			if pass.A1[j] < 0 {
				t.Fatalf("a1[%d]=%v is negative", j, pass.A1[j])
			}
		}
		for k, a := range pass.A2 {
			if a <= 0 || a >= 1 {
				t.Fatalf("a2[%d]=%v outside (0,1) for input %v", k, a, in)
			}
		}
	}
}

func TestComputeUnbiasedLinearity(t *testing.T) {
	params := referenceParams()
	params.Hidden.Bias = make([]float64, len(params.Hidden.Bias))

	base, err := Compute(referenceInput(), params)
	require.NoError(t, err)

	for _, c := range []float64{2, -0.5, 3.25} {
		scaled := make([]float64, 0, 3)
		for _, v := range referenceInput() {
			scaled = append(scaled, c*v)
		}
		pass, err := Compute(scaled, params)
		require.NoError(t, err)
		for j := range base.Z1 {
			assert.InDelta(t, c*base.Z1[j], pass.Z1[j], 1e-12, "z1[%d] c=%v", j, c)
		}
	}
}

func TestComputeInputMismatch(t *testing.T) {
	pass, err := Compute([]float64{1, 2}, referenceParams())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Equal(t, Pass{}, pass)

	var dm *DimensionMismatchError
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, "W1.cols", dm.Left)
	assert.Equal(t, 3, dm.LeftSize)
	assert.Equal(t, "input.len", dm.Right)
	assert.Equal(t, 2, dm.RightSize)
}

func TestComputeLayerMismatches(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *Params)
		left   string
		right  string
	}{
		{"hidden bias", func(p *Params) { p.Hidden.Bias = p.Hidden.Bias[:3] }, "W1.rows", "b1.len"},
		{"output bias", func(p *Params) { p.Output.Bias = append(p.Output.Bias, 1) }, "W2.rows", "b2.len"},
		{"hidden to output", func(p *Params) {
			p.Output.Weights = [][]float64{{1, 2, 3}, {4, 5, 6}}
		}, "W2.cols", "W1.rows"},
		{"ragged W1", func(p *Params) { p.Hidden.Weights[2] = []float64{1, 2} }, "W1[2].len", "W1.cols"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := referenceParams()
			tc.mutate(params)
			_, err := Compute(referenceInput(), params)
			var dm *DimensionMismatchError
			require.True(t, errors.As(err, &dm), "got %v", err)
			assert.Equal(t, tc.left, dm.Left)
			assert.Equal(t, tc.right, dm.Right)
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	_, err := Compute(nil, referenceParams())
	assert.ErrorIs(t, err, ErrEmpty)

	params := referenceParams()
	params.Output = Layer{}
	_, err = Compute(referenceInput(), params)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestComputePropagatesNaN(t *testing.T) {
	pass, err := Compute([]float64{math.NaN(), 0, 0}, referenceParams())
	require.NoError(t, err)
	for j, z := range pass.Z1 {
		assert.True(t, math.IsNaN(z), "z1[%d]=%v", j, z)
	}
	for k, a := range pass.A2 {
		assert.True(t, math.IsNaN(a), "a2[%d]=%v", k, a)
	}
}

func TestNetworkForwardConcurrent(t *testing.T) {
	net, err := NewNetwork(referenceParams())
	require.NoError(t, err)
	assert.Equal(t, 4, net.HiddenSize())
	assert.Equal(t, 2, net.OutputSize())

	want, err := net.Forward(referenceInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := net.Forward(referenceInput())
			if err != nil {
				errs <- err
				return
			}
			if !bitEqual(got.A2, want.A2) {
				errs <- errors.New("concurrent pass diverged")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestNewNetworkRejectsBadParams(t *testing.T) {
	_, err := NewNetwork(nil)
	assert.Error(t, err)

	params := referenceParams()
	params.Output.Bias = nil
	_, err = NewNetwork(params)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func assertVec(t *testing.T, name string, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want), name)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "%s[%d]", name, i)
	}
}

func bitEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}
