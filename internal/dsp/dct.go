package dsp

import (
	"math"

	"github.com/thesyncim/lpcfeat/types"
)

// dctTable[i*NumBands+j] = cos((i+0.5)*j*pi/NumBands), with the j == 0
// column scaled by sqrt(0.5) so the transform is orthonormal.
var dctTable [types.NumBands * types.NumBands]float32

var dctScale = float32(math.Sqrt(2.0 / types.NumBands))

func initDCT() {
	for i := 0; i < types.NumBands; i++ {
		for j := 0; j < types.NumBands; j++ {
			v := math.Cos((float64(i) + 0.5) * float64(j) * math.Pi / types.NumBands)
			if j == 0 {
				v *= math.Sqrt(0.5)
			}
			dctTable[i*types.NumBands+j] = float32(v)
		}
	}
}

// DCT computes the cepstrum of the log band energies in.
func DCT(out, in []float32) {
	var tmp [types.NumBands]float32
	for i := 0; i < types.NumBands; i++ {
		var sum float32
		for j := 0; j < types.NumBands; j++ {
			sum += in[j] * dctTable[j*types.NumBands+i]
		}
		tmp[i] = sum * dctScale
	}
	copy(out, tmp[:])
}

// IDCT is the inverse of DCT.
func IDCT(out, in []float32) {
	var tmp [types.NumBands]float32
	for i := 0; i < types.NumBands; i++ {
		var sum float32
		for j := 0; j < types.NumBands; j++ {
			sum += in[j] * dctTable[i*types.NumBands+j]
		}
		tmp[i] = sum * dctScale
	}
	copy(out, tmp[:])
}
