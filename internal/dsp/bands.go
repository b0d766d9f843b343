package dsp

import "github.com/thesyncim/lpcfeat/types"

// frameSizeShift scales the 5 ms band layout to the 20 ms window (4 bins per unit).
const frameSizeShift = 2

// bandEdges are the band boundaries in units of 4 FFT bins.
var bandEdges = [types.NumBands]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 14, 16, 20, 24, 28, 34, 40}

// BandEnergy computes triangular-overlap band energies from the spectrum X.
// Each bin contributes to its two neighbouring band centres with linear
// weights; the outer bands are doubled to compensate for their half
// triangles.
func BandEnergy(bandE []float32, X []complex128) {
	var sum [types.NumBands]float32
	for i := 0; i < types.NumBands-1; i++ {
		bandSize := (bandEdges[i+1] - bandEdges[i]) << frameSizeShift
		start := bandEdges[i] << frameSizeShift
		for j := 0; j < bandSize; j++ {
			frac := float32(j) / float32(bandSize)
			re := float32(real(X[start+j]))
			im := float32(imag(X[start+j]))
			tmp := re*re + im*im
			sum[i] += (1 - frac) * tmp
			sum[i+1] += frac * tmp
		}
	}
	sum[0] *= 2
	sum[types.NumBands-1] *= 2
	copy(bandE, sum[:])
}

// InterpBandGain expands per-band gains to a per-bin gain curve by linear
// interpolation between band centres. Bins past the last band edge are zero.
func InterpBandGain(g []float32, bandE []float32) {
	clear(g[:types.FreqSize])
	for i := 0; i < types.NumBands-1; i++ {
		bandSize := (bandEdges[i+1] - bandEdges[i]) << frameSizeShift
		start := bandEdges[i] << frameSizeShift
		for j := 0; j < bandSize; j++ {
			frac := float32(j) / float32(bandSize)
			g[start+j] = (1-frac)*bandE[i] + frac*bandE[i+1]
		}
	}
}
