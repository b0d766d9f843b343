package dsp

import (
	"math"

	"github.com/thesyncim/lpcfeat/types"
)

// compensation undoes the triangular band overlap when band energies are
// expanded back to a spectrum.
var compensation = [types.NumBands]float32{
	0.8, 1, 1, 1, 1, 1, 1, 1, 0.666667, 0.5, 0.5, 0.5, 0.333333, 0.25, 0.25, 0.2, 0.166667, 0.173913,
}

// Levinson runs the Levinson-Durbin recursion on the autocorrelation ac
// (len(lpc)+1 lags) and returns the final prediction error. The predictor
// convention is A(z) = 1 + sum lpc[j] z^-(j+1). The recursion stops early
// once the error drops below 1/1000 of the signal energy.
func Levinson(lpc []float32, ac []float32) float32 {
	p := len(lpc)
	clear(lpc)
	errE := ac[0]
	if ac[0] == 0 {
		return errE
	}
	for i := 0; i < p; i++ {
		var rr float32
		for j := 0; j < i; j++ {
			rr += lpc[j] * ac[i-j]
		}
		rr += ac[i+1]
		r := -rr / errE
		lpc[i] = r
		for j := 0; j < (i+1)>>1; j++ {
			tmp1 := lpc[j]
			tmp2 := lpc[i-1-j]
			lpc[j] = tmp1 + r*tmp2
			lpc[i-1-j] = tmp2 + r*tmp1
		}
		errE -= r * r * errE
		if errE < 0.001*ac[0] {
			break
		}
	}
	return errE
}

// LPCFromBands derives LPC coefficients from band energies Ex and returns
// the prediction error (the frame gain).
func (t *Transform) LPCFromBands(lpc []float32, Ex []float32) float32 {
	var gains [types.FreqSize]float32
	InterpBandGain(gains[:], Ex)
	gains[types.FreqSize-1] = 0

	var X [types.FreqSize]complex128
	for i, g := range gains {
		X[i] = complex(float64(g), 0)
	}
	var xAuto [types.WindowSize]float64
	t.Inverse(xAuto[:], X[:])

	var ac [types.LPCOrder + 1]float32
	for i := range ac {
		ac[i] = float32(xAuto[i])
	}
	// Noise floor plus lag windowing keep the recursion well conditioned.
	ac[0] += ac[0]*1e-4 + 26.0/38.0
	for i := 1; i <= types.LPCOrder; i++ {
		ac[i] *= 1 - 6e-5*float32(i*i)
	}
	return Levinson(lpc[:types.LPCOrder], ac[:])
}

// LPCFromCepstrum converts a NumBands cepstrum back to band energies and
// derives the LPC filter from them. It returns the prediction gain.
func (t *Transform) LPCFromCepstrum(lpc []float32, cepstrum []float32) float32 {
	var tmp, Ex [types.NumBands]float32
	copy(tmp[:], cepstrum[:types.NumBands])
	tmp[0] += 4
	IDCT(Ex[:], tmp[:])
	for i := range Ex {
		Ex[i] = float32(math.Pow(10, float64(Ex[i]))) * compensation[i]
	}
	return t.LPCFromBands(lpc, Ex[:])
}
