package dsp

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/thesyncim/lpcfeat/types"
)

// Transform is a WindowSize real transform with its own scratch buffers.
// A Transform is not safe for concurrent use; every codec state owns one.
type Transform struct {
	fft   *fourier.FFT
	seq   []float64
	coeff []complex128
}

// NewTransform allocates a transform plan for WindowSize samples.
func NewTransform() *Transform {
	return &Transform{
		fft:   fourier.NewFFT(types.WindowSize),
		seq:   make([]float64, types.WindowSize),
		coeff: make([]complex128, types.FreqSize),
	}
}

// Forward computes the first FreqSize bins of the DFT of x, scaled by
// 1/WindowSize. len(x) must be WindowSize and len(X) at least FreqSize.
func (t *Transform) Forward(X []complex128, x []float32) {
	for i, v := range x[:types.WindowSize] {
		t.seq[i] = float64(v)
	}
	t.fft.Coefficients(t.coeff, t.seq)
	const norm = 1.0 / types.WindowSize
	for i := 0; i < types.FreqSize; i++ {
		X[i] = t.coeff[i] * complex(norm, 0)
	}
}

// Inverse computes the unnormalized real inverse DFT of the Hermitian
// spectrum whose first FreqSize bins are X. len(out) must be WindowSize.
func (t *Transform) Inverse(out []float64, X []complex128) {
	copy(t.coeff, X[:types.FreqSize])
	t.fft.Sequence(out[:types.WindowSize], t.coeff)
}
