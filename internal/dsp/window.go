// Package dsp provides the spectral and linear-prediction primitives used by
// the frame analyzer and the feature codec: the analysis window, the real
// forward/inverse transform, band energies, the band DCT and LPC derivation
// from a cepstrum.
package dsp

import (
	"math"

	"github.com/thesyncim/lpcfeat/types"
)

// The analysis window is the power-complementary Vorbis window over the
// overlap region:
//
//	w[i] = sin(0.5*pi * sin(0.5*pi*(i+0.5)/overlap)^2)
//
// applied to both ends of the WindowSize block.
var halfWindow [types.OverlapSize]float32

func init() {
	for i := range halfWindow {
		halfWindow[i] = float32(vorbisWindow(i, types.OverlapSize))
	}
	initDCT()
}

func vorbisWindow(i, overlap int) float64 {
	x := float64(i) + 0.5
	s := math.Sin(0.5 * math.Pi * x / float64(overlap))
	return math.Sin(0.5 * math.Pi * s * s)
}

// ApplyWindow windows x in place. len(x) must be WindowSize.
func ApplyWindow(x []float32) {
	_ = x[types.WindowSize-1]
	for i := 0; i < types.OverlapSize; i++ {
		x[i] *= halfWindow[i]
		x[types.WindowSize-1-i] *= halfWindow[i]
	}
}
