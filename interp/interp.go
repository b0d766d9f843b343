// Package interp predicts the two uncoded subframes of a superframe from the
// coded anchors around them.
//
// Subframe 0 sits between the previous superframe's end anchor and the mid
// anchor (subframe 1); subframe 2 sits between the mid anchor and the end
// anchor (subframe 3). Each gap picks one of three predictions and the pair
// of choices is coded jointly in 3 bits.
package interp

import (
	"fmt"

	"github.com/thesyncim/lpcfeat/types"
)

// Choice is the prediction used for one gap.
type Choice int

const (
	Average Choice = iota // mean of both neighbours
	Left                  // left neighbour
	Right                 // right neighbour
	numChoices
)

func (c Choice) String() string {
	switch c {
	case Average:
		return "average"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Choice(%d)", int(c))
	}
}

// Forbidden is the joint choice that is never coded: subframe 0 copying its
// right neighbour and subframe 2 copying its left neighbour would both
// duplicate the mid anchor.
const Forbidden = int(Right)*int(numChoices) + int(Left)

// Codes is the number of distinct codes.
const Codes = int(numChoices)*int(numChoices) - 1

// Bits is the width of a coded joint choice.
const Bits = 3

// Pack maps a pair of choices to its code, skipping Forbidden.
func Pack(first, second Choice) int {
	id := int(first)*int(numChoices) + int(second)
	if id > Forbidden {
		id--
	}
	return id
}

// Unpack is the inverse of Pack.
func Unpack(code int) (Choice, Choice) {
	if code >= Forbidden {
		code++
	}
	return Choice(code / int(numChoices)), Choice(code % int(numChoices))
}

// predict writes the prediction c of the gap between left and right into dst.
func predict(dst, left, right []float32, c Choice) {
	for i := 0; i < types.NumBands; i++ {
		switch c {
		case Average:
			dst[i] = 0.5 * (left[i] + right[i])
		case Left:
			dst[i] = left[i]
		default:
			dst[i] = right[i]
		}
	}
}

// Search scores the three predictions of x from its neighbours by squared
// error and returns the scores and the best choice.
func Search(x, left, right []float32) ([numChoices]float32, Choice) {
	var dist [numChoices]float32
	var pred [types.NumBands]float32
	best := Average
	minDist := float32(1e15)
	for c := Average; c < numChoices; c++ {
		predict(pred[:], left, right, c)
		var d float32
		for i := 0; i < types.NumBands; i++ {
			t := x[i] - pred[i]
			d += t * t
		}
		dist[c] = d
		if d < minDist {
			minDist = d
			best = c
		}
	}
	return dist, best
}

// DoubleSearch picks the joint code for both gaps of f, minimizing the
// summed squared error. mem is the previous superframe's end anchor.
// Only the true subframes 0 and 2 are consulted, so this is encoder-only.
func DoubleSearch(f *types.FeatureMatrix, mem []float32) int {
	d0, _ := Search(f[0].Cepstrum(), mem, f[1].Cepstrum())
	d1, _ := Search(f[2].Cepstrum(), f[1].Cepstrum(), f[3].Cepstrum())
	bestID := 0
	minDist := float32(1e15)
	for i := 0; i < int(numChoices); i++ {
		for j := 0; j < int(numChoices); j++ {
			id := i*int(numChoices) + j
			if id == Forbidden {
				continue
			}
			if d := d0[i] + d1[j]; d < minDist {
				minDist = d
				bestID = id
			}
		}
	}
	return Pack(Choice(bestID/int(numChoices)), Choice(bestID%int(numChoices)))
}

// Apply overwrites the cepstra of subframes 0 and 2 with the predictions
// named by code.
func Apply(f *types.FeatureMatrix, mem []float32, code int) {
	c0, c1 := Unpack(code)
	predict(f[0].Cepstrum(), mem, f[1].Cepstrum(), c0)
	predict(f[2].Cepstrum(), f[1].Cepstrum(), f[3].Cepstrum(), c1)
}

// Relax pulls the mid anchor of f towards its neighbouring subframes. The
// weight each neighbour receives follows the best joint interpolation
// choice: 1 when that gap copies the mid anchor's side, 0.5 for averaging,
// nothing when the gap was predicted from its other neighbour. It is an
// alternative to coding the gaps directly and leaves subframes 0 and 2
// untouched.
func Relax(f *types.FeatureMatrix, mem []float32) {
	c0, c1 := Unpack(DoubleSearch(f, mem))
	mid := f[1].Cepstrum()
	count := float32(1)
	if c0 != Left {
		t := float32(1)
		if c0 == Average {
			t = 0.5
		}
		for i, v := range f[0].Cepstrum() {
			mid[i] += t * v
		}
		count += t
	}
	if c1 != Right {
		t := float32(1)
		if c1 == Average {
			t = 0.5
		}
		for i, v := range f[2].Cepstrum() {
			mid[i] += t * v
		}
		count += t
	}
	inv := 1 / count
	for i := range mid {
		mid[i] *= inv
	}
}
